package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/appdotbuilder/attendance-tracker/pkg/helpers"

	"github.com/appdotbuilder/attendance-tracker/config"
)

// Demo office location used for seeded attendance events.
var (
	officeLat  = 40.712800
	officeLng  = -74.006000
	officeAddr = "123 Business Street, New York, NY"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := seedUser(db, "Admin User", "admin@company.com", "admin123", "admin")
	fmt.Printf("seeded admin: id=%s email=admin@company.com password=admin123\n", adminID)

	employees := []struct {
		name  string
		email string
	}{
		{"John Doe", "john@company.com"},
		{"Jane Smith", "jane@company.com"},
		{"Bob Wilson", "bob@company.com"},
	}
	for _, e := range employees {
		id := seedUser(db, e.name, e.email, "password123", "employee")
		fmt.Printf("seeded employee: id=%s email=%s password=password123\n", id, e.email)
		seedAttendance(db, id)
	}
}

func seedUser(db *sql.DB, name, email, password, role string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name, role=EXCLUDED.role
		RETURNING id
	`, name, email, hash, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

// seedAttendance inserts a completed check-in/check-out pair for each of
// the last ten weekdays.
func seedAttendance(db *sql.DB, userID string) {
	day := time.Now().AddDate(0, 0, -1)
	pairs := 0
	for pairs < 10 {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, -1)
			continue
		}
		checkIn := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
		checkOut := checkIn.Add(8 * time.Hour)
		for _, ev := range []struct {
			typ string
			at  time.Time
		}{{"check_in", checkIn}, {"check_out", checkOut}} {
			if _, err := db.Exec(`
				INSERT INTO attendance_records (user_id, type, recorded_at, latitude, longitude, location_address)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, userID, ev.typ, ev.at, officeLat, officeLng, officeAddr); err != nil {
				log.Fatalf("failed to seed attendance: %v", err)
			}
		}
		pairs++
		day = day.AddDate(0, 0, -1)
	}
}
