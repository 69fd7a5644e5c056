package event

// variant describes how one kind is extracted from the wire: the fields it
// declares and the builder that turns the resolved values into an Event.
type variant struct {
	fields []Field
	build  func(values) (Event, error)
}

// variants is the compatibility contract with the server's message format.
// Wire keys must stay exactly as observed.
var variants = map[Kind]variant{
	KindAuthAck: {
		fields: []Field{{"ack", WholePayload}},
		build: func(v values) (Event, error) {
			ack, err := v.string("ack")
			return AuthAck{Ack: ack}, err
		},
	},
	KindAdvance: {
		fields: []Field{
			{"currentDJ", PayloadKey("c")},
			{"waitingDJs", PayloadKey("d")},
			{"historyID", PayloadKey("h")},
			{"media", PayloadKey("m")},
			{"playlistID", PayloadKey("p")},
			{"startTime", PayloadKey("t")},
			{"roomSlug", TopLevelKey("s")},
		},
		build: buildAdvance,
	},
	KindChat: {
		fields: []Field{
			{"chatID", PayloadKey("cid")},
			{"message", PayloadKey("message")},
			{"userID", PayloadKey("uid")},
			{"username", PayloadKey("un")},
		},
		build: buildChat,
	},
	KindChatDelete: {
		fields: []Field{
			{"chatID", PayloadKey("c")},
			{"moderatorID", PayloadKey("mi")},
		},
		build: func(v values) (Event, error) {
			var (
				e   ChatDelete
				err error
			)
			if e.ChatID, err = v.string("chatID"); err != nil {
				return nil, err
			}
			e.ModeratorID, err = v.int64("moderatorID")
			return e, err
		},
	},
	KindDJListUpdate: {
		fields: []Field{{"waitingDJs", WholePayload}},
		build: func(v values) (Event, error) {
			ids, err := v.int64s("waitingDJs")
			return DJListUpdate{WaitingDJs: ids}, err
		},
	},
	KindEarn: {
		fields: []Field{
			{"level", PayloadKey("level")},
			{"xp", PayloadKey("xp")},
			{"pp", PayloadKey("pp")},
		},
		build: func(v values) (Event, error) {
			var (
				e   Earn
				err error
			)
			if e.Level, err = v.int64("level"); err != nil {
				return nil, err
			}
			if e.XP, err = v.int64("xp"); err != nil {
				return nil, err
			}
			e.PP, err = v.int64("pp")
			return e, err
		},
	},
	KindFriendRequest: {
		fields: []Field{{"username", WholePayload}},
		build: func(v values) (Event, error) {
			name, err := v.string("username")
			return FriendRequest{Username: name}, err
		},
	},
	KindGrab: {
		fields: []Field{{"userID", WholePayload}},
		build: func(v values) (Event, error) {
			id, err := v.int64("userID")
			return Grab{UserID: id}, err
		},
	},
	KindModSkip: {
		fields: []Field{
			{"moderator", PayloadKey("m")},
			{"moderatorID", PayloadKey("mi")},
		},
		build: func(v values) (Event, error) {
			var (
				e   ModSkip
				err error
			)
			if e.Moderator, err = v.string("moderator"); err != nil {
				return nil, err
			}
			e.ModeratorID, err = v.int64("moderatorID")
			return e, err
		},
	},
	KindPlaylistCycle: {
		fields: []Field{
			{"playlistID", WholePayload},
			{"roomSlug", TopLevelKey("s")},
		},
		build: func(v values) (Event, error) {
			var (
				e   PlaylistCycle
				err error
			)
			if e.PlaylistID, err = v.int64("playlistID"); err != nil {
				return nil, err
			}
			e.RoomSlug, err = v.string("roomSlug")
			return e, err
		},
	},
	KindRoomNameUpdate: {
		fields: []Field{{"name", PayloadKey("n")}, {"userID", PayloadKey("u")}},
		build: func(v values) (Event, error) {
			text, id, err := textUpdate(v, "name")
			return RoomNameUpdate{Name: text, UserID: id}, err
		},
	},
	KindRoomDescriptionUpdate: {
		fields: []Field{{"description", PayloadKey("d")}, {"userID", PayloadKey("u")}},
		build: func(v values) (Event, error) {
			text, id, err := textUpdate(v, "description")
			return RoomDescriptionUpdate{Description: text, UserID: id}, err
		},
	},
	KindRoomWelcomeUpdate: {
		fields: []Field{{"welcome", PayloadKey("w")}, {"userID", PayloadKey("u")}},
		build: func(v values) (Event, error) {
			text, id, err := textUpdate(v, "welcome")
			return RoomWelcomeUpdate{Welcome: text, UserID: id}, err
		},
	},
	KindSkip: {
		fields: []Field{{"userID", WholePayload}},
		build: func(v values) (Event, error) {
			id, err := v.int64("userID")
			return Skip{UserID: id}, err
		},
	},
	KindUserJoin: {
		fields: []Field{
			{"user", WholePayload},
			{"roomSlug", TopLevelKey("s")},
		},
		build: func(v values) (Event, error) {
			var (
				e   UserJoin
				err error
			)
			if e.User.Raw, err = v.object("user", &e.User); err != nil {
				return nil, err
			}
			e.RoomSlug, err = v.string("roomSlug")
			return e, err
		},
	},
	KindUserLeave: {
		fields: []Field{
			{"userID", WholePayload},
			{"roomSlug", TopLevelKey("s")},
		},
		build: func(v values) (Event, error) {
			var (
				e   UserLeave
				err error
			)
			if e.UserID, err = v.int64("userID"); err != nil {
				return nil, err
			}
			e.RoomSlug, err = v.string("roomSlug")
			return e, err
		},
	},
	KindVote: {
		fields: []Field{
			{"userID", PayloadKey("i")},
			{"direction", PayloadKey("v")},
		},
		build: func(v values) (Event, error) {
			var (
				e   Vote
				err error
			)
			if e.UserID, err = v.int64("userID"); err != nil {
				return nil, err
			}
			e.Direction, err = v.int("direction")
			return e, err
		},
	},
}

func buildAdvance(v values) (Event, error) {
	var (
		e   Advance
		err error
	)
	if e.CurrentDJ, err = v.int64("currentDJ"); err != nil {
		return nil, err
	}
	if e.WaitingDJs, err = v.int64s("waitingDJs"); err != nil {
		return nil, err
	}
	if e.HistoryID, err = v.string("historyID"); err != nil {
		return nil, err
	}
	if e.Media.Raw, err = v.object("media", &e.Media); err != nil {
		return nil, err
	}
	if e.PlaylistID, err = v.int64("playlistID"); err != nil {
		return nil, err
	}
	if e.StartTime, err = v.string("startTime"); err != nil {
		return nil, err
	}
	if e.RoomSlug, err = v.string("roomSlug"); err != nil {
		return nil, err
	}
	return e, nil
}

func buildChat(v values) (Event, error) {
	var (
		e   Chat
		err error
	)
	if e.ChatID, err = v.string("chatID"); err != nil {
		return nil, err
	}
	if e.Message, err = v.string("message"); err != nil {
		return nil, err
	}
	if e.UserID, err = v.int64("userID"); err != nil {
		return nil, err
	}
	if e.Username, err = v.string("username"); err != nil {
		return nil, err
	}
	return e, nil
}

func textUpdate(v values, name string) (string, int64, error) {
	text, err := v.string(name)
	if err != nil {
		return "", 0, err
	}
	id, err := v.int64("userID")
	return text, id, err
}

// Fields returns the declared fields of a kind, or nil for kinds without a
// variant.
func Fields(k Kind) []Field {
	v, ok := variants[k]
	if !ok {
		return nil
	}
	return append([]Field(nil), v.fields...)
}

// Known reports whether k has a variant.
func Known(k Kind) bool {
	_, ok := variants[k]
	return ok
}
