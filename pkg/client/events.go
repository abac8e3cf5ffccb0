package client

import (
	"context"
	"net/http"
	"time"
)

// Question is a registration question attached when an event is created.
type Question struct {
	QuestionText string       `json:"questionText"`
	QuestionType QuestionType `json:"questionType"`
}

// EventRequest creates or edits an event. Questions are only read on create.
type EventRequest struct {
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	EventDate   time.Time  `json:"eventDate"`
	PictureURL  string     `json:"pictureUrl,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

func (c *Client) ListEvents(ctx context.Context) ([]EventSummary, error) {
	var out []EventSummary
	return out, c.call(ctx, http.MethodGet, "/events", nil, &out)
}

func (c *Client) UpcomingEvents(ctx context.Context) ([]EventSummary, error) {
	var out []EventSummary
	return out, c.call(ctx, http.MethodGet, "/events/upcoming", nil, &out)
}

func (c *Client) PastEvents(ctx context.Context) ([]EventSummary, error) {
	var out []EventSummary
	return out, c.call(ctx, http.MethodGet, "/events/past", nil, &out)
}

func (c *Client) GetEvent(ctx context.Context, id uint) (*Event, error) {
	return c.event(ctx, http.MethodGet, idPath("/events/%d", id), nil)
}

func (c *Client) CreateEvent(ctx context.Context, clubID uint, in EventRequest) (*Event, error) {
	return c.event(ctx, http.MethodPost, idPath("/clubs/%d/events", clubID), in)
}

func (c *Client) UpdateEvent(ctx context.Context, id uint, in EventRequest) (*Event, error) {
	return c.event(ctx, http.MethodPut, idPath("/events/%d", id), in)
}

func (c *Client) DeleteEvent(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/events/%d", id), nil, nil)
}

// Attend registers for an event without a form. Events with questions need SubmitForm.
func (c *Client) Attend(ctx context.Context, id uint) (*Event, error) {
	return c.event(ctx, http.MethodPost, idPath("/events/%d/attend", id), nil)
}

// SubmitForm registers for an event with one answer per question.
func (c *Client) SubmitForm(ctx context.Context, id uint, answers []Answer) (*Event, error) {
	body := struct {
		Answers []Answer `json:"answers"`
	}{Answers: answers}
	return c.event(ctx, http.MethodPost, idPath("/events/%d/submit-form", id), body)
}

func (c *Client) LeaveEvent(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/events/%d/leave", id), nil, nil)
}

func (c *Client) RemoveAttendee(ctx context.Context, eventID, userID uint) error {
	return c.call(ctx, http.MethodDelete, idPath("/events/%d/attendees/%d", eventID, userID), nil, nil)
}

// Submissions groups every attendee's answers by question. Managers only.
func (c *Client) Submissions(ctx context.Context, eventID uint) ([]Submission, error) {
	var out []Submission
	return out, c.call(ctx, http.MethodGet, idPath("/events/%d/submissions", eventID), nil, &out)
}

func (c *Client) event(ctx context.Context, method, path string, in interface{}) (*Event, error) {
	var out Event
	if err := c.call(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
