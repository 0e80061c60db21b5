package storage

import "context"

// SampleMonsters is a small starter bestiary so a fresh database can answer
// questions immediately.
var SampleMonsters = []Monster{
	{
		Name:                "Beholder",
		Type:                "Aberration",
		Size:                "Large",
		ArmorClass:          18,
		HitPoints:           180,
		Speed:               "0 ft., fly 20 ft. (hover)",
		ChallengeRating:     "13",
		Abilities:           "STR 10, DEX 14, CON 18, INT 17, WIS 15, CHA 17",
		Skills:              "Perception +12",
		ConditionImmunities: "Prone",
		Senses:              "Darkvision 120 ft., passive Perception 22",
		Languages:           "Deep Speech, Undercommon",
		SpecialAbilities:    "Antimagic Cone: The beholder's central eye creates an area of antimagic in a 150-foot cone.",
		Actions:             "Bite; Eye Rays: the beholder shoots three random magical eye rays.",
		LegendaryActions:    "Eye Ray: The beholder uses one random eye ray.",
		Source:              "Monster Manual",
	},
	{
		Name:             "Adult Red Dragon",
		Type:             "Dragon",
		Size:             "Huge",
		ArmorClass:       19,
		HitPoints:        256,
		Speed:            "40 ft., climb 40 ft., fly 80 ft.",
		ChallengeRating:  "17",
		Abilities:        "STR 27, DEX 10, CON 25, INT 16, WIS 13, CHA 21",
		Skills:           "Perception +13, Stealth +6",
		DamageImmunities: "Fire",
		Senses:           "Blindsight 60 ft., darkvision 120 ft., passive Perception 23",
		Languages:        "Common, Draconic",
		SpecialAbilities: "Legendary Resistance (3/Day)",
		Actions:          "Multiattack; Bite; Claw; Tail; Fire Breath (recharge 5-6): 18d6 fire damage.",
		LegendaryActions: "Detect; Tail Attack; Wing Attack",
		Source:           "Monster Manual",
	},
	{
		Name:             "Adult Black Dragon",
		Type:             "Dragon",
		Size:             "Huge",
		ArmorClass:       19,
		HitPoints:        195,
		Speed:            "40 ft., fly 80 ft., swim 40 ft.",
		ChallengeRating:  "14",
		Abilities:        "STR 23, DEX 14, CON 21, INT 14, WIS 13, CHA 17",
		Skills:           "Perception +11, Stealth +7",
		DamageImmunities: "Acid",
		Senses:           "Blindsight 60 ft., darkvision 120 ft., passive Perception 21",
		Languages:        "Common, Draconic",
		SpecialAbilities: "Amphibious; Legendary Resistance (3/Day)",
		Actions:          "Multiattack; Bite; Claw; Tail; Acid Breath (recharge 5-6): 12d8 acid damage.",
		LegendaryActions: "Detect; Tail Attack; Wing Attack",
		Source:           "Monster Manual",
	},
	{
		Name:             "Goblin",
		Type:             "Humanoid",
		Size:             "Small",
		ArmorClass:       15,
		HitPoints:        7,
		Speed:            "30 ft.",
		ChallengeRating:  "1/4",
		Abilities:        "STR 8, DEX 14, CON 10, INT 10, WIS 8, CHA 8",
		Skills:           "Stealth +6",
		Senses:           "Darkvision 60 ft., passive Perception 9",
		Languages:        "Common, Goblin",
		SpecialAbilities: "Nimble Escape: can take the Disengage or Hide action as a bonus action.",
		Actions:          "Scimitar; Shortbow",
		Source:           "Monster Manual",
	},
	{
		Name:             "Frost Giant",
		Type:             "Giant",
		Size:             "Huge",
		ArmorClass:       15,
		HitPoints:        138,
		Speed:            "40 ft.",
		ChallengeRating:  "8",
		Abilities:        "STR 23, DEX 9, CON 21, INT 9, WIS 10, CHA 12",
		Skills:           "Athletics +9, Perception +3",
		DamageImmunities: "Cold",
		Senses:           "Passive Perception 13",
		Languages:        "Giant",
		Actions:          "Multiattack; Greataxe; Rock",
		Source:           "Monster Manual",
	},
	{
		Name:             "Winter Wolf",
		Type:             "Monstrosity",
		Size:             "Large",
		ArmorClass:       13,
		HitPoints:        75,
		Speed:            "50 ft.",
		ChallengeRating:  "3",
		Abilities:        "STR 18, DEX 13, CON 14, INT 7, WIS 12, CHA 8",
		Skills:           "Perception +5, Stealth +3",
		DamageImmunities: "Cold",
		Senses:           "Passive Perception 15",
		Languages:        "Common, Giant, Winter Wolf",
		SpecialAbilities: "Keen Hearing and Smell; Pack Tactics; Snow Camouflage",
		Actions:          "Bite; Cold Breath (recharge 5-6): 4d8 cold damage.",
		Source:           "Monster Manual",
	},
}

// SeedSampleData inserts the starter bestiary, skipping monsters that are
// already present.
func (s *MonsterStore) SeedSampleData(ctx context.Context) error {
	for _, m := range SampleMonsters {
		if err := s.InsertMonster(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
