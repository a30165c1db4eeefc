package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/casadosescritores/escritores-go/internal/models"
)

// CreateNotification inserts a notification row for a recipient.
func (s *Store) CreateNotification(recipientID, senderID, notifType, message string) (*models.Notification, error) {
	id := uuid.NewString()
	now := time.Now()
	query := "INSERT INTO notifications (id, recipient_id, sender_id, type, message, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := s.db.Exec(query, id, recipientID, senderID, notifType, message, now); err != nil {
		return nil, err
	}
	return &models.Notification{
		ID:          id,
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		Message:     message,
		CreatedAt:   now,
	}, nil
}

// ListNotifications returns the recipient's notifications, newest first.
func (s *Store) ListNotifications(recipientID string, unreadOnly bool) ([]*models.Notification, error) {
	query := "SELECT id, recipient_id, sender_id, type, message, read, created_at FROM notifications WHERE recipient_id = ?"
	if unreadOnly {
		query += " AND read = 0"
	}
	query += " ORDER BY created_at DESC LIMIT 100"

	rows, err := s.db.Query(query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks one notification read, scoped to its
// recipient so one user cannot touch another's rows.
func (s *Store) MarkNotificationRead(id, recipientID string) error {
	res, err := s.db.Exec("UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?", id, recipientID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every unread notification for a
// recipient.
func (s *Store) MarkAllNotificationsRead(recipientID string) error {
	_, err := s.db.Exec("UPDATE notifications SET read = 1 WHERE recipient_id = ? AND read = 0", recipientID)
	return err
}
