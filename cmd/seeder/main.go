package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"

	"parley/internal/config"
	"parley/internal/model"
	"parley/internal/repository"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := repository.Open(cfg.DB, gormlogger.Silent)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to migrate database: %v", err)
	}

	// Common password for all users
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Println("🌱 Seeding 10 users...")

	var seeded []model.User
	for i := 1; i <= 10; i++ {
		alias := fmt.Sprintf("user%d", i)
		email := fmt.Sprintf("user%d@parley.local", i)

		var existing model.User
		if err := db.Where("id_alias = ?", alias).First(&existing).Error; err == nil {
			seeded = append(seeded, existing)
			continue
		}

		authUser := model.AuthUser{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hashedPassword),
		}
		if err := db.Create(&authUser).Error; err != nil {
			log.Printf("❌ Failed to create auth user %s: %v", email, err)
			continue
		}

		avatar := fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", alias)
		user := model.User{
			ID:          uuid.New(),
			IDAlias:     alias,
			DisplayName: fmt.Sprintf("User Number %d", i),
			AvatarURL:   &avatar,
			AuthUserID:  &authUser.ID,
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", alias, err)
		} else {
			log.Printf("✅ Created user: %s | Email: %s | Pass: %s", alias, email, password)
			seeded = append(seeded, user)
		}
	}

	seedGroupChat(db, seeded)

	log.Println("🎉 Seeding completed!")
}

func seedGroupChat(db *gorm.DB, users []model.User) {
	if len(users) < 3 {
		return
	}

	admin := users[0]
	members := users[1:3]

	var count int64
	db.Model(&model.Conversation{}).Where("name = ?", "General Chat").Count(&count)
	if count > 0 {
		return
	}

	name := "General Chat"
	group := model.Conversation{
		ID:   uuid.New(),
		Type: model.ConversationTypeGroup,
		Name: &name,
	}

	if err := db.Create(&group).Error; err != nil {
		log.Printf("❌ Failed to create group: %v", err)
		return
	}

	db.Create(&model.Participant{
		ConversationID: group.ID,
		UserID:         admin.ID,
		Role:           model.ParticipantRoleAdmin,
	})

	for _, m := range members {
		db.Create(&model.Participant{
			ConversationID: group.ID,
			UserID:         m.ID,
			Role:           model.ParticipantRoleMember,
		})
	}

	text := "Welcome everybody to Parley! 🚀"
	msg := model.Message{
		ID:             uuid.New(),
		ConversationID: group.ID,
		SenderUserID:   &admin.ID,
		Type:           model.MessageTypeText,
		Text:           &text,
		Status:         model.MessageStatusActive,
	}
	db.Create(&msg)

	log.Println("✅ Created demo group: 'General Chat' with 3 members")
}
