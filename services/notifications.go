package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forkful/apperr"
	"forkful/database"
	"forkful/models"
)

// DedupWindow is how long a repeated (type, recipient, sender, target) tuple
// suppresses a new notification.
const DedupWindow = 60 * time.Second

// WebPushConfig carries the VAPID material for the push side channel. Empty
// keys disable delivery; stored notifications are unaffected.
type WebPushConfig struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
}

type NotificationService struct {
	DB      *database.Mongo
	Log     *logrus.Logger
	WebPush WebPushConfig
}

// NotificationEvent describes one action that may produce a notification.
type NotificationEvent struct {
	Type      string
	Recipient primitive.ObjectID
	Sender    primitive.ObjectID
	Target    models.NotificationTarget
	Metadata  map[string]string
}

// Deduplicated reports whether a notification type falls under the 60 second
// dedup window. Comments are distinct events and always notify.
func Deduplicated(notifType string) bool {
	switch notifType {
	case models.NotifPostLike, models.NotifCommentLike, models.NotifFollow:
		return true
	default:
		return false
	}
}

// Notify creates a notification for the event, applying self-action
// suppression and the dedup window, then fans out to web push. Failures are
// logged and swallowed: this side channel never fails the primary action.
func (s *NotificationService) Notify(ctx context.Context, ev NotificationEvent) {
	if ev.Recipient == ev.Sender {
		return
	}

	if err := s.create(ctx, ev); err != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"type":      ev.Type,
			"recipient": ev.Recipient.Hex(),
		}).Warn("notification creation failed")
	}
}

func (s *NotificationService) create(ctx context.Context, ev NotificationEvent) error {
	now := time.Now()

	if Deduplicated(ev.Type) {
		dup, err := s.recentDuplicate(ctx, ev, now)
		if err != nil {
			return err
		}
		if dup {
			return nil
		}
	}

	notif := models.Notification{
		Recipient: ev.Recipient,
		Sender:    ev.Sender,
		Type:      ev.Type,
		Target:    ev.Target,
		Read:      false,
		Metadata:  ev.Metadata,
		CreatedAt: now.Unix(),
	}
	if _, err := s.DB.Notifications.InsertOne(ctx, notif); err != nil {
		return err
	}

	s.pushToRecipient(ctx, notif)
	return nil
}

func (s *NotificationService) recentDuplicate(ctx context.Context, ev NotificationEvent, now time.Time) (bool, error) {
	filter := bson.M{
		"type":        ev.Type,
		"recipient":   ev.Recipient,
		"sender":      ev.Sender,
		"target.kind": ev.Target.Kind,
		"target.id":   ev.Target.ID,
		"createdAt":   bson.M{"$gte": now.Add(-DedupWindow).Unix()},
	}
	err := s.DB.Notifications.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// pushToRecipient sends the notification to every stored subscription of the
// recipient. Best effort; dead endpoints are removed.
func (s *NotificationService) pushToRecipient(ctx context.Context, notif models.Notification) {
	if s.WebPush.PrivateKey == "" || s.WebPush.PublicKey == "" {
		return
	}

	cursor, err := s.DB.PushSubs.Find(ctx, bson.M{"userId": notif.Recipient})
	if err != nil {
		s.Log.WithError(err).Warn("push subscription lookup failed")
		return
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		s.Log.WithError(err).Warn("push subscription decode failed")
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type":   notif.Type,
		"sender": notif.Sender.Hex(),
		"target": notif.Target,
	})
	if err != nil {
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      s.WebPush.Subscriber,
			VAPIDPublicKey:  s.WebPush.PublicKey,
			VAPIDPrivateKey: s.WebPush.PrivateKey,
			TTL:             60,
		})
		if err != nil {
			s.Log.WithError(err).Debug("web push send failed")
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			_, _ = s.DB.PushSubs.DeleteOne(ctx, bson.M{"_id": sub.ID})
		}
		resp.Body.Close()
	}
}

// Subscribe upserts a push subscription keyed by its endpoint.
func (s *NotificationService) Subscribe(ctx context.Context, userID primitive.ObjectID, sub webpush.Subscription) error {
	_, err := s.DB.PushSubs.UpdateOne(ctx,
		bson.M{"sub.endpoint": sub.Endpoint},
		bson.M{
			"$set":         bson.M{"userId": userID, "sub": sub},
			"$setOnInsert": bson.M{"createdAt": time.Now().Unix()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page Page) ([]models.Notification, int64, error) {
	filter := bson.M{"recipient": userID}
	if unreadOnly {
		filter["read"] = false
	}

	total, err := s.DB.Notifications.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)

	cursor, err := s.DB.Notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifs := []models.Notification{}
	if err := cursor.All(ctx, &notifs); err != nil {
		return nil, 0, err
	}
	return notifs, total, nil
}

// UnreadCount counts unread notifications for the badge.
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.DB.Notifications.CountDocuments(ctx, bson.M{"recipient": userID, "read": false})
}

// MarkRead marks one notification read; only the recipient may.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notifID primitive.ObjectID) error {
	res, err := s.DB.Notifications.UpdateOne(ctx,
		bson.M{"_id": notifID, "recipient": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead sweeps the recipient's unread notifications.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.DB.Notifications.UpdateMany(ctx,
		bson.M{"recipient": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one notification owned by the recipient.
func (s *NotificationService) Delete(ctx context.Context, userID, notifID primitive.ObjectID) error {
	res, err := s.DB.Notifications.DeleteOne(ctx, bson.M{"_id": notifID, "recipient": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// DeleteRead removes all read notifications for the recipient.
func (s *NotificationService) DeleteRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.DB.Notifications.DeleteMany(ctx, bson.M{"recipient": userID, "read": true})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
