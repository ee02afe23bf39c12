package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
	"github.com/Mo7amed-Boukab/eventia-backend/database"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auditlog"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/auth"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/event"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/notification"
	"github.com/Mo7amed-Boukab/eventia-backend/internal/reservation"
	"github.com/Mo7amed-Boukab/eventia-backend/routes"
)

// ensureActiveReservationIndex creates the partial unique index that
// limits a user to one PENDING or CONFIRMED reservation per event.
// AutoMigrate cannot express a partial index, so it is created here.
func ensureActiveReservationIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_one_active
		ON reservations (user_id, event_id)
		WHERE status IN ('PENDING', 'CONFIRMED')
	`).Error
}

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&reservation.Reservation{},
		&auditlog.AuditLog{},
		&notification.NotificationLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	if err := ensureActiveReservationIndex(db); err != nil {
		panic(fmt.Sprintf("❌ Creating active reservation index failed: %v", err))
	}

	if err := auth.SeedAdminUser(db, cfg); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin user: %v", err))
	}

	eventCache := event.NewCache(cfg)

	publisher := notification.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	notificationRepo := notification.NewRepository(db)
	notificationSvc := notification.NewService(notificationRepo, cfg, publisher)
	go notification.StartKafkaConsumer(context.Background(), cfg.KafkaBrokers, cfg.KafkaTopic, notificationSvc)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, eventCache, notificationSvc)

	addr := ":" + cfg.Port
	log.Printf("🚀 Eventia backend listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
