package events

import (
	"strings"
	"time"

	"github.com/chrisdamba/foodswipe/internal/models"
)

// Event is one analytics record. Every kind shares the flat layout so a single
// parquet schema covers the topic; fields a kind does not use stay empty.
type Event struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	SessionID string `json:"sessionId" parquet:"name=sessionId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Username  string `json:"username,omitempty" parquet:"name=username,type=BYTE_ARRAY,convertedtype=UTF8"`

	ItemID    string `json:"itemId,omitempty" parquet:"name=itemId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemName  string `json:"itemName,omitempty" parquet:"name=itemName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Direction string `json:"direction,omitempty" parquet:"name=direction,type=BYTE_ARRAY,convertedtype=UTF8"`
	Tags      string `json:"tags,omitempty" parquet:"name=tags,type=BYTE_ARRAY,convertedtype=UTF8"`
	Calories  int64  `json:"calories,omitempty" parquet:"name=calories,type=INT64"`

	Taboos string `json:"taboos,omitempty" parquet:"name=taboos,type=BYTE_ARRAY,convertedtype=UTF8"`
	Count  int64  `json:"count,omitempty" parquet:"name=count,type=INT64"`
	Live   bool   `json:"live,omitempty" parquet:"name=live,type=BOOLEAN"`
}

// Time returns the event timestamp.
func (e Event) Time() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

func SwipeEvent(dir models.SwipeDirection, item models.CandidateItem) Event {
	return Event{
		EventType: models.EventSwipe,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Direction: string(dir),
		Tags:      strings.Join(item.Tags, ","),
		Calories:  int64(item.Calories),
	}
}

func TaboosUpdatedEvent(taboos string) Event {
	return Event{EventType: models.EventTaboosUpdated, Taboos: taboos}
}

func MenuRemovedEvent(item models.CandidateItem) Event {
	return Event{
		EventType: models.EventMenuRemoved,
		ItemID:    item.ID,
		ItemName:  item.Name,
		Calories:  int64(item.Calories),
	}
}

// BatchIngestedEvent records a completed refill: how many items joined the
// queue and whether the gateway had a live source.
func BatchIngestedEvent(added int, live bool) Event {
	return Event{EventType: models.EventBatchIngested, Count: int64(added), Live: live}
}

func LoginEvent() Event {
	return Event{EventType: models.EventLogin}
}
