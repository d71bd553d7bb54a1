package models

import "time"

// Agent is an external fixer the office delegates paperwork to
type Agent struct {
	ID        int       `json:"id"`
	OfficeID  int       `json:"office_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	WhatsApp  string    `json:"whatsapp"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Client is a customer of the office
type Client struct {
	ID        int       `json:"id"`
	OfficeID  int       `json:"office_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	WhatsApp  string    `json:"whatsapp"`
	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePartyRequest is shared by agent and client creation
type CreatePartyRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
}
