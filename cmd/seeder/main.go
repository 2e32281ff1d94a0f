package main

import (
	"fmt"
	"log"

	"github.com/flintchat/flint/internal/config"
	"github.com/flintchat/flint/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all users
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Println("🌱 Seeding 10 users...")

	var users []model.User
	for i := 1; i <= 10; i++ {
		username := fmt.Sprintf("user%d", i)
		email := fmt.Sprintf("user%d@flint.local", i)

		var existing model.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			users = append(users, existing)
			continue
		}

		user := model.User{
			ID:       uuid.New(),
			Username: username,
			Email:    email,
			Password: string(hashedPassword),
			Avatar:   fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username),
			LastRoom: "general",
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)
		log.Printf("✅ Created user: %s | Email: %s | Pass: %s", username, email, password)
	}

	seedRooms(db)
	seedFriends(db, users)

	log.Println("🎉 Seeding completed!")
}

func seedRooms(db *gorm.DB) {
	for _, name := range []string{"general", "random", "dev"} {
		room := model.Room{ID: uuid.New(), Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&room).Error; err != nil {
			log.Printf("❌ Failed to create room %s: %v", name, err)
			continue
		}
	}
	log.Println("✅ Seeded rooms: general, random, dev")
}

// seedFriends links the first two users as friends and drops a greeting
// into their conversation scope.
func seedFriends(db *gorm.DB, users []model.User) {
	if len(users) < 2 {
		return
	}
	a, b := users[0], users[1]

	pairs := []model.Friendship{
		{UserID: a.ID, FriendID: b.ID},
		{UserID: b.ID, FriendID: a.ID},
	}
	for _, f := range pairs {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&f).Error; err != nil {
			log.Printf("❌ Failed to create friendship: %v", err)
			return
		}
	}

	scope := model.ConversationScope(a.ID, b.ID)
	var count int64
	db.Model(&model.Message{}).Where("scope = ?", scope).Count(&count)
	if count == 0 {
		db.Create(&model.Message{
			Scope:        scope,
			SenderID:     a.ID,
			SenderName:   a.Username,
			SenderAvatar: a.Avatar,
			Body:         "Hey! 👋",
		})
	}

	log.Printf("✅ Linked %s and %s as friends", a.Username, b.Username)
}
