package store_test

import (
	"testing"

	"github.com/casadosescritores/escritores-go/internal/models"
	"github.com/casadosescritores/escritores-go/internal/store"
	"github.com/casadosescritores/escritores-go/internal/testutil"
)

func TestNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.New(db)

	recipient, _ := st.CreateProfile("recipient", "hash", "user")
	sender, _ := st.CreateProfile("sender", "hash", "user")

	n1, err := st.CreateNotification(recipient.ID, sender.ID, models.NotificationFollow, "sender started following you")
	if err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}
	st.CreateNotification(recipient.ID, sender.ID, models.NotificationNewChapter, "new chapter out")

	t.Run("listing", func(t *testing.T) {
		list, err := st.ListNotifications(recipient.ID, false)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("got %d notifications, want 2", len(list))
		}
	})

	t.Run("mark one read", func(t *testing.T) {
		if err := st.MarkNotificationRead(n1.ID, recipient.ID); err != nil {
			t.Fatalf("MarkNotificationRead failed: %v", err)
		}
		unread, _ := st.ListNotifications(recipient.ID, true)
		if len(unread) != 1 {
			t.Errorf("got %d unread, want 1", len(unread))
		}
	})

	t.Run("recipient scoping", func(t *testing.T) {
		// Another profile cannot mark someone else's notification read.
		stranger, _ := st.CreateProfile("stranger", "hash", "user")
		unreadBefore, _ := st.ListNotifications(recipient.ID, true)
		st.MarkNotificationRead(unreadBefore[0].ID, stranger.ID)
		unreadAfter, _ := st.ListNotifications(recipient.ID, true)
		if len(unreadAfter) != len(unreadBefore) {
			t.Error("a stranger marked another profile's notification read")
		}
	})

	t.Run("mark all read", func(t *testing.T) {
		if err := st.MarkAllNotificationsRead(recipient.ID); err != nil {
			t.Fatalf("MarkAllNotificationsRead failed: %v", err)
		}
		unread, _ := st.ListNotifications(recipient.ID, true)
		if len(unread) != 0 {
			t.Errorf("got %d unread after mark-all, want 0", len(unread))
		}
	})
}
