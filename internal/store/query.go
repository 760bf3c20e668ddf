package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskman/internal/task"
)

// filterQuery translates a Filter into a MongoDB query document.
func filterQuery(f Filter, now time.Time) (bson.M, error) {
	q := bson.M{}

	if f.Priority != nil {
		q["priority"] = *f.Priority
	}
	if f.Status != nil {
		q["status"] = *f.Status
	}

	switch {
	case f.Due == "":
	case strings.EqualFold(strings.TrimSpace(f.Due), "overdue"):
		q["due_date"] = bson.M{"$lt": now}
	default:
		day, err := task.ParseDate(f.Due, now)
		if err != nil {
			return nil, fmt.Errorf("due filter: %w", err)
		}
		q["due_date"] = bson.M{"$gte": day, "$lt": day.AddDate(0, 0, 1)}
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
		}
	}

	return q, nil
}

// updateDocument translates a partial update into a $set document. Only
// supplied fields change; updated_at is always written.
func updateDocument(u task.Update) bson.M {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = task.Now()
	}
	set := bson.M{"updated_at": u.UpdatedAt}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.DueDate != nil {
		set["due_date"] = *u.DueDate
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	return bson.M{"$set": set}
}
