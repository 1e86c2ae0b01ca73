package screen

import (
	"context"
	"sync"

	"chat-sync-app/dto/req"
	"chat-sync-app/entity"
	"chat-sync-app/security"
	"chat-sync-app/storage"
	"chat-sync-app/viewstate"
)

// ProfileScreen edits the signed-in user's own profile.
type ProfileScreen struct {
	deps    Deps
	session *security.Session

	mu             sync.Mutex
	profile        *entity.User
	updatedProfile viewstate.Flag
}

func NewProfileScreen(deps Deps, session *security.Session) *ProfileScreen {
	return &ProfileScreen{deps: deps, session: session}
}

// Activate loads the profile once; it is not a live query.
func (p *ProfileScreen) Activate(ctx context.Context) {
	p.Load(ctx, nil)
}

func (p *ProfileScreen) Deactivate() {}

func (p *ProfileScreen) Load(ctx context.Context, onComplete func(bool)) {
	viewstate.Dispatch(p.deps.Log, "load profile", func() error {
		user, err := p.deps.Auth.Me(ctx, p.session)
		if err != nil {
			return err
		}
		p.setProfile(user)
		return nil
	}, onComplete)
}

func (p *ProfileScreen) Profile() (entity.User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.profile == nil {
		return entity.User{}, false
	}
	return *p.profile, true
}

func (p *ProfileScreen) setProfile(user *entity.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = user
}

func (p *ProfileScreen) UpdateProfile(ctx context.Context, userName, bio string, image *storage.Image, onComplete func(bool)) {
	viewstate.Dispatch(p.deps.Log, "update profile", func() error {
		user, err := p.deps.Users.UpdateProfile(ctx, p.session, &req.EditProfileRequest{UserName: userName, Bio: bio}, image)
		if err != nil {
			return err
		}
		p.setProfile(user)
		return nil
	}, func(ok bool) {
		p.updatedProfile.Set(ok)
		if onComplete != nil {
			onComplete(ok)
		}
	})
}

func (p *ProfileScreen) UpdatedProfileStatus() (updated, reported bool) {
	return p.updatedProfile.Get()
}

func (p *ProfileScreen) ResetProfileUpdatedStatus() {
	p.updatedProfile.Reset()
}
