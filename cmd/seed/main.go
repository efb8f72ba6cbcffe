package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/trips"
	"busline/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Busline Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"payments",
		"booking_seats",
		"bookings",
		"trips",
		"buses",
		"routes",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	// Seed users first (no dependencies)
	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Seed routes (no dependencies)
	routeIDs, err := s.SeedRoutes()
	if err != nil {
		return fmt.Errorf("failed to seed routes: %w", err)
	}

	// Seed buses (no dependencies)
	busIDs, err := s.SeedBuses()
	if err != nil {
		return fmt.Errorf("failed to seed buses: %w", err)
	}

	// Seed trips
	if err := s.SeedTrips(routeIDs, busIDs); err != nil {
		return fmt.Errorf("failed to seed trips: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 4 users: 1 admin, 1 staff and 2 passengers
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// Hash password for all users (using "qwerty")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@busline.dev", "+15550100", users.RoleAdmin},
		{"staff", "Counter", "Agent", "staff@busline.dev", "+15550101", users.RoleStaff},
		{"passenger1", "Asha", "Patel", "asha.patel@example.com", "+15550102", users.RolePassenger},
		{"passenger2", "Liam", "Brown", "liam.brown@example.com", "+15550103", users.RolePassenger},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Phone:     userData.phone,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedRoutes creates the route network
func (s *Seeder) SeedRoutes() ([]uuid.UUID, error) {
	fmt.Println("  🗺️ Seeding routes...")

	var routeIDs []uuid.UUID

	routesData := []struct {
		origin      string
		destination string
		baseFare    int64 // minor units
		duration    int   // minutes
	}{
		{"Mumbai", "Pune", 45000, 210},
		{"Pune", "Mumbai", 45000, 210},
		{"Mumbai", "Nashik", 52000, 240},
		{"Nashik", "Mumbai", 52000, 240},
		{"Pune", "Nagpur", 120000, 720},
	}

	for _, routeData := range routesData {
		route := trips.Route{
			ID:              uuid.New(),
			Origin:          routeData.origin,
			Destination:     routeData.destination,
			BaseFare:        routeData.baseFare,
			DurationMinutes: routeData.duration,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&route).Error; err != nil {
			return nil, fmt.Errorf("failed to create route %s-%s: %w", route.Origin, route.Destination, err)
		}

		routeIDs = append(routeIDs, route.ID)
		fmt.Printf("    ✅ Created route: %s → %s\n", route.Origin, route.Destination)
	}

	return routeIDs, nil
}

// SeedBuses creates the fleet
func (s *Seeder) SeedBuses() ([]uuid.UUID, error) {
	fmt.Println("  🚌 Seeding buses...")

	var busIDs []uuid.UUID

	busesData := []struct {
		plateNumber string
		model       string
		capacity    int
	}{
		{"MH-12-AB-1234", "Volvo 9400", 45},
		{"MH-12-CD-5678", "Scania Metrolink", 40},
		{"MH-14-EF-9012", "Ashok Leyland Viking", 36},
	}

	for _, busData := range busesData {
		bus := trips.Bus{
			ID:          uuid.New(),
			PlateNumber: busData.plateNumber,
			Model:       busData.model,
			Capacity:    busData.capacity,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&bus).Error; err != nil {
			return nil, fmt.Errorf("failed to create bus %s: %w", bus.PlateNumber, err)
		}

		busIDs = append(busIDs, bus.ID)
		fmt.Printf("    ✅ Created bus: %s (%d seats)\n", bus.PlateNumber, bus.Capacity)
	}

	return busIDs, nil
}

// SeedTrips schedules departures over the next week, pairing each outbound
// route with its reverse so round trips are bookable out of the box.
func (s *Seeder) SeedTrips(routeIDs, busIDs []uuid.UUID) error {
	fmt.Println("  🎫 Seeding trips...")

	departures := []struct {
		departure string
		arrival   string
	}{
		{"07:00", "10:30"},
		{"13:00", "16:30"},
		{"19:00", "22:30"},
	}

	created := 0
	for day := 1; day <= 7; day++ {
		travelDate := time.Now().AddDate(0, 0, day).Truncate(24 * time.Hour)

		for ri, routeID := range routeIDs {
			for di, dep := range departures {
				busID := busIDs[(ri+di)%len(busIDs)]

				trip := trips.Trip{
					ID:            uuid.New(),
					RouteID:       routeID,
					BusID:         &busID,
					TravelDate:    travelDate,
					DepartureTime: dep.departure,
					ArrivalTime:   dep.arrival,
					Status:        trips.StatusScheduled,
					CreatedAt:     time.Now(),
					UpdatedAt:     time.Now(),
				}

				if err := s.db.PostgreSQL.Create(&trip).Error; err != nil {
					return fmt.Errorf("failed to create trip on route %s: %w", routeID, err)
				}
				created++
			}
		}
	}

	fmt.Printf("    ✅ Created %d trips over the next 7 days\n", created)
	return nil
}
