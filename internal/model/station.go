package model

import "github.com/google/uuid"

type Station struct {
	ID      uuid.UUID
	Name    string
	Address string
	BankRef string
}
