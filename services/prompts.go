package services

import "fmt"

// Prompt templates for every Gemini call the Oracle makes. Keeping them in
// one file makes the instruction text reviewable without digging through the
// services.

func routerPrompt(question string) string {
	return fmt.Sprintf(`You are an expert query routing assistant for a Dungeons & Dragons knowledge base. Your task is to classify the user's question into one of two categories based on its intent: 'structured' or 'unstructured'.

'structured' questions ask for specific, factual data about game entities, such as monster statistics. These questions often involve numbers, lists, comparisons, or filtering.
Examples:
- "What is a Beholder's armor class?"
- "List all monsters with resistance to cold damage."
- "Which dragon has more hit points, an adult red or an adult black?"
- "Show me all CR 5 monsters."

'unstructured' questions ask about rules, lore, spell descriptions, or ask for creative narrative content. These questions are typically explanatory or generative in nature.
Examples:
- "How does the grappling condition work?"
- "What is the history of the elves in the Forgotten Realms?"
- "Explain how spell slots work in D&D 5e."

Based on the user's question below, output only the single word 'structured' or 'unstructured' and nothing else.

User Question: %s
Classification:`, question)
}

func sqlPrompt(table, question, previousError string) string {
	prompt := fmt.Sprintf(`You are a SQLite SQL expert for D&D monster data.

Database Schema:
Table: %s
- name (TEXT, NOT NULL): Monster name
- type (TEXT): Creature type (Dragon, Beast, Humanoid, etc.)
- size (TEXT): Size category (Tiny, Small, Medium, Large, Huge, Gargantuan)
- armor_class (INTEGER): Armor Class (AC)
- hit_points (INTEGER): Hit points
- speed (TEXT): Movement speeds (walk, fly, swim, etc.)
- challenge_rating (TEXT): Challenge Rating (CR as string, e.g., '1/4', '17', '21')
- abilities (TEXT): All ability scores formatted as text (STR, DEX, CON, INT, WIS, CHA)
- skills (TEXT): Proficient skills and bonuses
- damage_resistances (TEXT): Damage types the monster resists
- damage_immunities (TEXT): Damage types the monster is immune to
- condition_immunities (TEXT): Conditions the monster is immune to
- senses (TEXT): Special senses (darkvision, blindsight, etc.)
- languages (TEXT): Languages the monster can speak/understand
- special_abilities (TEXT): Special traits or abilities
- actions (TEXT): Actions the monster can take
- legendary_actions (TEXT): Legendary actions (if any)
- source (TEXT): Source book or material

IMPORTANT NOTES:
- challenge_rating is TEXT, not a number - use LIKE for CR comparisons
- Use the LIKE operator for text searches in abilities, special_abilities, etc.
- Only SELECT statements are allowed

User Question: %s`, table, question)

	if previousError != "" {
		prompt += fmt.Sprintf("\n\nYour previous query failed with this error, write a corrected one:\n%s", previousError)
	}

	return prompt + "\nWrite a single SQLite SELECT query:"
}

func structuredAnswerPrompt(question, rows string) string {
	return fmt.Sprintf(`You are a helpful Dungeon Master assistant with access to D&D monster data.

The user asked: "%s"

Database results:
%s

Provide a clear, helpful answer based on this data:`, question, rows)
}

func unstructuredAnswerPrompt(question, passages string) string {
	return fmt.Sprintf(`You are a master Dungeon Master, an expert in D&D 5th Edition.

The user asked: "%s"

Relevant D&D information:
%s

Provide a comprehensive and engaging answer:`, question, passages)
}

func narrativePrompt(prompt, style string) string {
	return fmt.Sprintf(`You are a master Dungeon Master and expert storyteller.
Your tone is %s, engaging, and immersive.

Create narrative content for: "%s"

Use vivid descriptions and sensory details. Keep it suitable for D&D games.

Narrative:`, style, prompt)
}
