package app

import (
	"context"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
)

// ---- Session ----

// Credentials never reach the log; Login and Register failures carry no id.

func (a *App) Login(ctx context.Context, email, password string) bool {
	_, err := a.Session.Login(ctx, email, password)
	return a.done(ctx, "Login", "", err)
}

func (a *App) Register(ctx context.Context, email, password, name string) bool {
	_, err := a.Session.Register(ctx, email, password, name)
	return a.done(ctx, "Register", "", err)
}

func (a *App) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) bool {
	_, err := a.Session.UpdateProfile(ctx, patch)
	return a.done(ctx, "UpdateProfile", "", err)
}

// Logout always succeeds; a failure to clear the stored session is only logged.
func (a *App) Logout(ctx context.Context) {
	if err := a.Session.Logout(ctx); err != nil {
		a.report(ctx, "Logout", "", err)
	}
}

// CurrentUser returns the signed-in user, or nil.
func (a *App) CurrentUser() *domain.User {
	u, ok := a.Session.Current()
	if !ok {
		return nil
	}
	return &u
}

// ---- Trips ----

func (a *App) AddTrip(ctx context.Context, draft domain.TripDraft) bool {
	_, err := a.Trips.Add(ctx, draft)
	return a.done(ctx, "AddTrip", "", err)
}

func (a *App) UpdateTrip(ctx context.Context, id string, patch domain.TripPatch) bool {
	_, err := a.Trips.Update(ctx, id, patch)
	return a.done(ctx, "UpdateTrip", id, err)
}

func (a *App) DeleteTrip(ctx context.Context, id string) bool {
	return a.done(ctx, "DeleteTrip", id, a.Trips.Delete(ctx, id))
}

// ---- Marketplace ----

func (a *App) AddItem(ctx context.Context, draft domain.ItemDraft) bool {
	_, err := a.Marketplace.Add(ctx, draft)
	return a.done(ctx, "AddItem", "", err)
}

func (a *App) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) bool {
	_, err := a.Marketplace.Update(ctx, id, patch)
	return a.done(ctx, "UpdateItem", id, err)
}

func (a *App) DeleteItem(ctx context.Context, id string) bool {
	return a.done(ctx, "DeleteItem", id, a.Marketplace.Delete(ctx, id))
}

// ---- Feed ----

func (a *App) AddPost(ctx context.Context, draft domain.PostDraft) bool {
	_, err := a.Feed.AddPost(ctx, draft)
	return a.done(ctx, "AddPost", "", err)
}

func (a *App) LikePost(ctx context.Context, id string) bool {
	_, err := a.Feed.ToggleLike(ctx, id)
	return a.done(ctx, "LikePost", id, err)
}

func (a *App) AddComment(ctx context.Context, postID, content string) bool {
	_, err := a.Feed.AddComment(ctx, postID, content)
	return a.done(ctx, "AddComment", postID, err)
}

// ---- Events ----

func (a *App) AddEvent(ctx context.Context, draft domain.EventDraft) bool {
	_, err := a.Events.Add(ctx, draft)
	return a.done(ctx, "AddEvent", "", err)
}

func (a *App) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) bool {
	_, err := a.Events.Update(ctx, id, patch)
	return a.done(ctx, "UpdateEvent", id, err)
}

func (a *App) DeleteEvent(ctx context.Context, id string) bool {
	return a.done(ctx, "DeleteEvent", id, a.Events.Delete(ctx, id))
}

func (a *App) JoinEvent(ctx context.Context, id string) bool {
	_, err := a.Events.Join(ctx, id)
	return a.done(ctx, "JoinEvent", id, err)
}

func (a *App) LeaveEvent(ctx context.Context, id string) bool {
	_, err := a.Events.Leave(ctx, id)
	return a.done(ctx, "LeaveEvent", id, err)
}

// ---- Feedback ----

func (a *App) SubmitFeedback(ctx context.Context, rating int, category, message string) bool {
	_, err := a.Feedback.Submit(ctx, rating, category, message)
	return a.done(ctx, "SubmitFeedback", "", err)
}

// ---- Weather ----

// GetWeather never fails; without a lookup configured it returns nil.
func (a *App) GetWeather(ctx context.Context, location string) *domain.Weather {
	if a.Weather == nil {
		return nil
	}
	w := a.Weather.GetWeather(ctx, location)
	return &w
}
