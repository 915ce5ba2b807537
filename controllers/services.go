package controllers

import (
	"github.com/avinash-ch/UnionSathi/gateway"
	"github.com/avinash-ch/UnionSathi/services"
	"gorm.io/gorm"
)

// Package-level service instances shared by the handlers, wired once from
// main (and from test setup).
var (
	orderService  *services.OrderService
	verifyService *services.VerificationService
	reconciler    *services.Reconciler
	sessionStore  *services.SessionStore
)

// InitServices wires the payment services used by the controllers
func InitServices(db *gorm.DB, gateways gateway.Registry, baseURL string) {
	sessionStore = services.NewSessionStore()
	orderService = services.NewOrderService(db, gateways, baseURL)
	verifyService = services.NewVerificationService(db, gateways, sessionStore)
	reconciler = services.NewReconciler(verifyService)
}

// SessionStore exposes the session-state store for consumers that subscribe
// to login/logout/subscription events.
func SessionStore() *services.SessionStore {
	return sessionStore
}
