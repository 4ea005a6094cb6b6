package services

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forkful/models"
)

func TestCanViewPost(t *testing.T) {
	author := primitive.NewObjectID()
	follower := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	post := func(vis string) *models.Post {
		return &models.Post{Author: author, Visibility: vis}
	}

	cases := []struct {
		name      string
		requester *primitive.ObjectID
		post      *models.Post
		follows   bool
		want      bool
	}{
		{"anonymous sees public", nil, post(models.VisibilityPublic), false, true},
		{"anonymous blocked from followers", nil, post(models.VisibilityFollowers), false, false},
		{"anonymous blocked from private", nil, post(models.VisibilityPrivate), false, false},
		{"author sees own private", &author, post(models.VisibilityPrivate), false, true},
		{"author sees own followers-only without edge", &author, post(models.VisibilityFollowers), false, true},
		{"follower sees followers-only", &follower, post(models.VisibilityFollowers), true, true},
		{"non-follower blocked from followers-only", &stranger, post(models.VisibilityFollowers), false, false},
		{"stranger sees public", &stranger, post(models.VisibilityPublic), false, true},
		{"stranger blocked from private", &stranger, post(models.VisibilityPrivate), false, false},
		{"follow edge does not open private", &follower, post(models.VisibilityPrivate), true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CanViewPost(c.requester, c.post, c.follows); got != c.want {
				t.Errorf("CanViewPost() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestVisibilityFilterAnonymous(t *testing.T) {
	got := VisibilityFilter(nil, nil)
	want := bson.M{"visibility": models.VisibilityPublic}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VisibilityFilter(nil) = %v, want %v", got, want)
	}
}

func TestVisibilityFilterAuthenticated(t *testing.T) {
	me := primitive.NewObjectID()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	got := VisibilityFilter(&me, []primitive.ObjectID{a, b})
	or, ok := got["$or"].(bson.A)
	if !ok {
		t.Fatalf("filter missing $or: %v", got)
	}
	if len(or) != 3 {
		t.Fatalf("$or has %d clauses, want 3", len(or))
	}
	if !reflect.DeepEqual(or[0], bson.M{"visibility": models.VisibilityPublic}) {
		t.Errorf("public clause = %v", or[0])
	}
	if !reflect.DeepEqual(or[1], bson.M{"author": me}) {
		t.Errorf("own-posts clause = %v", or[1])
	}
	followersClause := bson.M{
		"visibility": models.VisibilityFollowers,
		"author":     bson.M{"$in": []primitive.ObjectID{a, b}},
	}
	if !reflect.DeepEqual(or[2], followersClause) {
		t.Errorf("followers clause = %v", or[2])
	}
}

func TestVisibilityFilterNoFollows(t *testing.T) {
	me := primitive.NewObjectID()
	got := VisibilityFilter(&me, nil)
	or := got["$or"].(bson.A)
	if len(or) != 2 {
		t.Errorf("with no follows, $or has %d clauses, want 2 (no empty $in)", len(or))
	}
}
