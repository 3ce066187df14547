package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"ridehail/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideAccepted  NotificationType = "RIDE_ACCEPTED"
	NotificationRideCompleted NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled NotificationType = "RIDE_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyRideAccepted notifies the rider that a driver accepted their ride.
func (s *NotificationService) NotifyRideAccepted(ctx context.Context, ride *domain.RideDetail) error {
	driverName := ""
	if ride.Driver != nil {
		driverName = ride.Driver.Name
	}

	return s.send(ctx, Notification{
		Type:        NotificationRideAccepted,
		RecipientID: ride.RiderID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("Driver %s has accepted your ride", driverName),
		Data: map[string]any{
			"ride_id":   ride.ID,
			"driver_id": ride.DriverID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCompleted notifies the rider that the ride has completed.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.RideDetail) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.RiderID,
		Title:       "Ride Completed",
		Message:     fmt.Sprintf("Your ride is complete. Total fare: %.2f %s", ride.Fare.TotalFare, ride.Fare.Currency),
		Data: map[string]any{
			"ride_id":    ride.ID,
			"total_fare": ride.Fare.TotalFare,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCancelled notifies the assigned driver, if any, that the rider
// cancelled.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.RideDetail, reason string) error {
	if ride.DriverID == "" {
		return nil // no one to notify
	}

	return s.send(ctx, Notification{
		Type:        NotificationRideCancelled,
		RecipientID: ride.DriverID,
		Title:       "Ride Cancelled",
		Message:     "The rider has cancelled the ride",
		Data: map[string]any{
			"ride_id": ride.ID,
			"reason":  reason,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers the notification. Stubbed as a structured log line.
func (s *NotificationService) send(_ context.Context, n Notification) error {
	log.Printf("notification type=%s recipient=%s title=%q", n.Type, n.RecipientID, n.Title)
	return nil
}
