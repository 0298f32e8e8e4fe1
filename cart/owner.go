package cart

// Owner is the discriminated identity a cart belongs to: either an anonymous
// visitor known by their session token, or an authenticated user.
type Owner struct {
	userID       string
	sessionToken string
}

func UserOwner(userID string) Owner {
	return Owner{userID: userID}
}

func AnonymousOwner(sessionToken string) Owner {
	return Owner{sessionToken: sessionToken}
}

func (o Owner) Authenticated() bool {
	return o.userID != ""
}

func (o Owner) UserID() string {
	return o.userID
}

// Key is the storage key. The prefix keeps user ids and session tokens from
// ever colliding in the carts table.
func (o Owner) Key() string {
	if o.userID != "" {
		return "user:" + o.userID
	}
	return "session:" + o.sessionToken
}

func (o Owner) Valid() bool {
	return o.userID != "" || o.sessionToken != ""
}
