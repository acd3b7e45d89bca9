// Seeds a demo course with lessons and a published quiz for local development.
//
// Usage: go run scripts/seed_demo.go
package main

import (
	"educonnect_backend/internal/config"
	"educonnect_backend/internal/model"
	"educonnect_backend/pkg/database"
	"educonnect_backend/pkg/logger"
	"encoding/json"
	"log"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.ForceMigrate = true

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var count int64
	db.Model(&model.Course{}).Where("title = ?", "Go Fundamentals").Count(&count)
	if count > 0 {
		log.Println("Demo data already present, nothing to do")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("teacher123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	instructor := &model.User{
		Name:     "Demo Instructor",
		Email:    "instructor@educonnect.io",
		Password: string(hashed),
		Role:     model.Teacher,
	}
	if err := db.Create(instructor).Error; err != nil {
		log.Fatalf("Failed to create instructor: %v", err)
	}

	course := &model.Course{
		Title:        "Go Fundamentals",
		Description:  "Syntax, types, and concurrency basics.",
		Category:     "programming",
		Level:        "beginner",
		Skills:       json.RawMessage(`["go","concurrency"]`),
		InstructorID: instructor.ID,
		IsPublished:  true,
		Lessons: []model.Lesson{
			{Title: "Getting Started", Content: "Installing the toolchain.", Duration: 10, Order: 1},
			{Title: "Types and Structs", Content: "Values, pointers, methods.", Duration: 15, Order: 2},
			{Title: "Goroutines", Content: "Concurrency with channels.", Duration: 20, Order: 3},
		},
	}
	if err := db.Create(course).Error; err != nil {
		log.Fatalf("Failed to create course: %v", err)
	}

	assessment := &model.Assessment{
		CourseID:     course.ID,
		Title:        "Go Fundamentals Quiz",
		Description:  "Checks the basics from lessons 1-3.",
		Category:     "programming",
		Type:         model.AssessmentQuiz,
		PassingScore: 70,
		IsPublished:  true,
		Questions: []model.AssessmentQuestion{
			{
				QuestionType:  model.QuestionMultipleChoice,
				Content:       "Which keyword starts a goroutine?",
				Options:       json.RawMessage(`["go","run","spawn","async"]`),
				CorrectAnswer: "go",
				Category:      "concurrency",
				Order:         1,
			},
			{
				QuestionType:   model.QuestionMultipleSelect,
				Content:        "Which of these are built-in Go types?",
				Options:        json.RawMessage(`["int","string","decimal","rune"]`),
				CorrectAnswers: json.RawMessage(`["int","string","rune"]`),
				Category:       "types",
				Order:          2,
			},
			{
				QuestionType:  model.QuestionTrueFalse,
				Content:       "A nil map can be written to.",
				CorrectAnswer: "false",
				Category:      "types",
				Order:         3,
			},
		},
	}
	if err := db.Create(assessment).Error; err != nil {
		log.Fatalf("Failed to create assessment: %v", err)
	}

	log.Printf("Seeded demo course %d with assessment %d", course.ID, assessment.ID)
}
