package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Store struct {
	ID           string
	Name         string
	AdminKeyHash string
	Logo         pgtype.Text
	Subtitle     pgtype.Text
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	CreatedAt      time.Time
}

type Category struct {
	ID        uuid.UUID
	StoreID   string
	Name      string
	SortOrder int32
	CreatedAt time.Time
}

type MenuItem struct {
	ID         uuid.UUID
	StoreID    string
	CategoryID pgtype.UUID
	Name       string
	Price      string // free text, parsed on demand
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	StoreID          string
	ID               string
	TableNo          string
	Items            string
	Total            int64
	Status           string
	UnavailableItems pgtype.Text
	AdjustedTotal    pgtype.Int8
	PriceSnapshot    []byte // JSONB: item name -> unit price at submit time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DailySale struct {
	StoreID    string
	SalesDate  pgtype.Date
	Total      int64
	OrderCount int64
	CreatedAt  time.Time
}
