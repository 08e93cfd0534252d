package main

import (
	"log"

	"camdencare/reference-checker/internal/config"
	"camdencare/reference-checker/internal/models"
	"camdencare/reference-checker/internal/repositories"
)

const organization = "Camden Care & Support Services"

// Role-specific screening questions for the question catalog. Roles without
// an entry fall back to the generic five at lookup time.
var catalog = map[string][]string{
	"Registered Nurse": {
		"How long have you known the candidate and in what clinical capacity?",
		"How would you rate the candidate's clinical judgement and patient safety awareness?",
		"How did the candidate handle medication management and documentation?",
		"How did the candidate communicate with patients, families and the care team?",
		"Would you rehire the candidate as a Registered Nurse?",
	},
	"Assistant in Nursing (AIN)": {
		"How long have you known the candidate and in what capacity?",
		"How reliable was the candidate with personal care routines and shift attendance?",
		"How did the candidate respond to direction from nursing staff?",
		"How did the candidate treat residents and their families?",
		"Would you recommend the candidate for an Assistant in Nursing role?",
	},
	"Disability Support Worker": {
		"How long have you known the candidate and in what capacity?",
		"How did the candidate support client independence and dignity?",
		"How did the candidate manage challenging behaviours or incidents?",
		"How well did the candidate follow individual support plans?",
		"Would you recommend the candidate for a disability support role?",
	},
	"Allied Health Professional": {
		"How long have you known the candidate and in what professional capacity?",
		"How would you rate the candidate's assessment and treatment planning skills?",
		"How did the candidate collaborate within a multidisciplinary team?",
		"How did the candidate keep their clinical records and reporting?",
		"Would you recommend the candidate for an allied health position?",
	},
}

func main() {
	log.Println("🚀 Seeding question catalog...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	questionRepo := repositories.NewQuestionRepository(db)

	seeded := 0
	for role, questions := range catalog {
		count, err := questionRepo.CountForRole(role, organization)
		if err != nil {
			log.Fatalf("❌ Failed to check existing questions for %s: %v", role, err)
		}
		if count > 0 {
			log.Printf("⏭️  Skipping %s: %d questions already present\n", role, count)
			continue
		}

		for _, text := range questions {
			question := &models.Question{
				Role:         role,
				Organization: organization,
				Question:     text,
				Active:       true,
			}
			if err := questionRepo.Create(question); err != nil {
				log.Fatalf("❌ Failed to seed question for %s: %v", role, err)
			}
			seeded++
		}
		log.Printf("✅ Seeded %d questions for %s\n", len(questions), role)
	}

	log.Printf("✅ Question catalog seeding completed (%d new questions)\n", seeded)
}
