package model

import (
	"time"
)

type SerialRecord struct {
	SerialNumber string       `db:"sn" json:"sn"`
	Status       SerialStatus `db:"status" json:"status"`
	Note         *string      `db:"note" json:"note"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

type UpsertSerialParams struct {
	SerialNumber string
	Status       SerialStatus
	Note         *string
}
