package handlers

import (
	userRepo "moviemate/database/repository/user"
)

// HandlerBundle aggregates the handlers and shared dependencies the route
// registrar wires up.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	Auth          *AuthHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	Storage       *StorageHandler
}
