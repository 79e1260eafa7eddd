package domain

import "time"

// Session identifica una conversacion viva en memoria. Solo existe mientras
// dure la sesion del usuario.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
