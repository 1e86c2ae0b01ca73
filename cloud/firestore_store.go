package cloud

import (
	"context"
	"errors"
	"fmt"

	"chat-sync-app/entity"
	"chat-sync-app/enum"
	"chat-sync-app/listener"
	"chat-sync-app/repository"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements repository.Store on Cloud Firestore. Listen
// methods use Firestore's own snapshot listeners.
type FirestoreStore struct {
	Client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{Client: client}
}

var _ repository.Store = (*FirestoreStore)(nil)

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return repository.ErrNotFound
	}
	return err
}

func (s *FirestoreStore) users() *firestore.CollectionRef {
	return s.Client.Collection(usersCollection)
}

func (s *FirestoreStore) rooms() *firestore.CollectionRef {
	return s.Client.Collection(roomsCollection)
}

func (s *FirestoreStore) messages(roomID string) *firestore.CollectionRef {
	return s.rooms().Doc(roomID).Collection(messagesCollection)
}

func (s *FirestoreStore) relations(ownerID string, kind enum.RelationKind) *firestore.CollectionRef {
	return s.users().Doc(ownerID).Collection(relationCollection(kind))
}

// listen decodes every snapshot of q until ctx ends or the listener fails.
// post, when set, filters or reorders each decoded snapshot.
func listen[T any](ctx context.Context, q firestore.Query, decode func(*firestore.DocumentSnapshot) (T, error), post func([]T) []T) <-chan listener.Snapshot[T] {
	out := make(chan listener.Snapshot[T], 1)
	go func() {
		defer close(out)
		it := q.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if ctx.Err() != nil {
				return
			}
			if err == nil && snap.Documents != nil {
				var docs []*firestore.DocumentSnapshot
				docs, err = snap.Documents.GetAll()
				if err == nil {
					var items []T
					items, err = decodeAll(docs, decode)
					if err == nil {
						if post != nil {
							items = post(items)
						}
						listener.Offer(out, listener.Snapshot[T]{Items: items})
						continue
					}
				}
			}
			if err == nil || errors.Is(err, iterator.Done) {
				err = errors.New("snapshot listener stopped")
			}
			listener.Offer(out, listener.Snapshot[T]{Err: err})
			return
		}
	}()
	return out
}

func decodeAll[T any](docs []*firestore.DocumentSnapshot, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		item, err := decode(doc)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.Path, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeUser(doc *firestore.DocumentSnapshot) (entity.User, error) {
	var d userDocument
	if err := doc.DataTo(&d); err != nil {
		return entity.User{}, err
	}
	return d.toEntity(doc.Ref.ID), nil
}

func decodeRoom(doc *firestore.DocumentSnapshot) (entity.Room, error) {
	var d roomDocument
	if err := doc.DataTo(&d); err != nil {
		return entity.Room{}, err
	}
	return d.toEntity(doc.Ref.ID), nil
}

func (s *FirestoreStore) SaveUser(ctx context.Context, user *entity.User) error {
	if _, err := s.users().Doc(user.ID).Set(ctx, userToDocument(*user)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *FirestoreStore) FindUser(ctx context.Context, id string) (*entity.User, error) {
	doc, err := s.users().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, notFound(err))
	}
	user, err := decodeUser(doc)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *FirestoreStore) UpdateProfile(ctx context.Context, id string, update repository.ProfileUpdate) error {
	_, err := s.users().Doc(id).Update(ctx, []firestore.Update{
		{Path: "userName", Value: update.UserName},
		{Path: "bio", Value: update.Bio},
		{Path: "imageUrl", Value: update.ImageURL},
	})
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, notFound(err))
	}
	return nil
}

// ListenUsersByName runs a range query on userName; the caller is filtered
// out of each snapshot.
func (s *FirestoreStore) ListenUsersByName(ctx context.Context, excludeID, prefix string) <-chan listener.Snapshot[entity.User] {
	q := s.users().
		Where("userName", ">=", prefix).
		Where("userName", "<=", prefix+prefixEnd).
		OrderBy("userName", firestore.Asc)
	return listen(ctx, q, decodeUser, func(users []entity.User) []entity.User {
		return withoutUser(users, excludeID)
	})
}

func (s *FirestoreStore) CreateRoom(ctx context.Context, room *entity.Room) error {
	ref := s.rooms().NewDoc()
	if room.ID != "" {
		ref = s.rooms().Doc(room.ID)
	}
	room.ID = ref.ID
	if _, err := ref.Set(ctx, roomToDocument(*room)); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *FirestoreStore) FindRoom(ctx context.Context, id string) (*entity.Room, error) {
	doc, err := s.rooms().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", id, notFound(err))
	}
	room, err := decodeRoom(doc)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *FirestoreStore) UpdateRoom(ctx context.Context, id string, update repository.RoomUpdate) error {
	_, err := s.rooms().Doc(id).Update(ctx, []firestore.Update{
		{Path: "roomName", Value: update.RoomName},
		{Path: "imageUrl", Value: update.ImageURL},
		{Path: "users", Value: update.Users},
	})
	if err != nil {
		return fmt.Errorf("update room %s: %w", id, notFound(err))
	}
	return nil
}

// DeleteRoom removes the room's messages before the room document, since
// Firestore keeps subcollections of deleted documents.
func (s *FirestoreStore) DeleteRoom(ctx context.Context, id string) error {
	writer := s.Client.BulkWriter(ctx)
	docs := s.messages(id).Documents(ctx)
	defer docs.Stop()
	for {
		doc, err := docs.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			writer.End()
			return fmt.Errorf("list messages of room %s: %w", id, err)
		}
		if _, err := writer.Delete(doc.Ref); err != nil {
			writer.End()
			return fmt.Errorf("delete messages of room %s: %w", id, err)
		}
	}
	writer.End()

	if _, err := s.rooms().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

func (s *FirestoreStore) UpdateLastMessage(ctx context.Context, roomID, body, senderID string) error {
	_, err := s.rooms().Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "lastMessageSent", Value: body},
		{Path: "lastMessageBy", Value: senderID},
		{Path: "lastMessageSeen", Value: false},
	})
	if err != nil {
		return fmt.Errorf("update last message of room %s: %w", roomID, notFound(err))
	}
	return nil
}

func (s *FirestoreStore) MarkLastMessageSeen(ctx context.Context, roomID string, seen bool) error {
	_, err := s.rooms().Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "lastMessageSeen", Value: seen},
	})
	if err != nil {
		return fmt.Errorf("mark room %s seen: %w", roomID, notFound(err))
	}
	return nil
}

func (s *FirestoreStore) ListenRooms(ctx context.Context, userID string) <-chan listener.Snapshot[entity.Room] {
	q := s.rooms().Where("users", "array-contains", userID)
	return listen(ctx, q, decodeRoom, func(rooms []entity.Room) []entity.Room {
		sortRooms(rooms)
		return rooms
	})
}

// SendMessage leaves timeSent to the server and reads the commit time back.
func (s *FirestoreStore) SendMessage(ctx context.Context, message *entity.Message) error {
	ref := s.messages(message.RoomID).NewDoc()
	if message.ID != "" {
		ref = s.messages(message.RoomID).Doc(message.ID)
	}
	message.ID = ref.ID

	doc := messageToDocument(*message)
	result, err := ref.Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("send message to room %s: %w", message.RoomID, err)
	}
	message.TimeSent = result.UpdateTime
	return nil
}

func (s *FirestoreStore) FindMessage(ctx context.Context, roomID, messageID string) (*entity.Message, error) {
	doc, err := s.messages(roomID).Doc(messageID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("find message %s: %w", messageID, notFound(err))
	}
	var d messageDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	message := d.toEntity(roomID, doc.Ref.ID)
	return &message, nil
}

func (s *FirestoreStore) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	if _, err := s.messages(roomID).Doc(messageID).Delete(ctx); err != nil {
		return fmt.Errorf("delete message %s: %w", messageID, err)
	}
	return nil
}

func (s *FirestoreStore) ListenMessages(ctx context.Context, roomID string) <-chan listener.Snapshot[entity.Message] {
	q := s.messages(roomID).OrderBy("timeSent", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)
	return listen(ctx, q, func(doc *firestore.DocumentSnapshot) (entity.Message, error) {
		var d messageDocument
		if err := doc.DataTo(&d); err != nil {
			return entity.Message{}, err
		}
		return d.toEntity(roomID, doc.Ref.ID), nil
	}, nil)
}

func (s *FirestoreStore) PutRelation(ctx context.Context, relation entity.Relation) error {
	ref := s.relations(relation.OwnerID, relation.Kind).Doc(relation.UserID)
	if _, err := ref.Set(ctx, userToDocument(relation.ToUser())); err != nil {
		return fmt.Errorf("put %s relation: %w", relation.Kind, err)
	}
	return nil
}

func (s *FirestoreStore) DeleteRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) error {
	if _, err := s.relations(ownerID, kind).Doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s relation: %w", kind, err)
	}
	return nil
}

func (s *FirestoreStore) HasRelation(ctx context.Context, ownerID string, kind enum.RelationKind, userID string) (bool, error) {
	_, err := s.relations(ownerID, kind).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s relation: %w", kind, err)
	}
	return true, nil
}

func (s *FirestoreStore) ListenRelations(ctx context.Context, ownerID string, kind enum.RelationKind) <-chan listener.Snapshot[entity.Relation] {
	q := s.relations(ownerID, kind).OrderBy(firestore.DocumentID, firestore.Asc)
	return listen(ctx, q, func(doc *firestore.DocumentSnapshot) (entity.Relation, error) {
		var d userDocument
		if err := doc.DataTo(&d); err != nil {
			return entity.Relation{}, err
		}
		return d.toRelation(ownerID, kind, doc.Ref.ID), nil
	}, nil)
}
