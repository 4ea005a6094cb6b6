package services

import (
	"testing"

	"forkful/models"
)

func TestDeduplicated(t *testing.T) {
	// Re-triggerable actions dedup; each comment is a distinct event.
	dedup := []string{models.NotifPostLike, models.NotifCommentLike, models.NotifFollow}
	always := []string{models.NotifPostComment, models.NotifCommentReply, models.NotifMention}

	for _, typ := range dedup {
		if !Deduplicated(typ) {
			t.Errorf("%s should fall under the dedup window", typ)
		}
	}
	for _, typ := range always {
		if Deduplicated(typ) {
			t.Errorf("%s must always create a notification", typ)
		}
	}
}
