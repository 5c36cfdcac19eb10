package feed

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Linksy/social-service/pkg/api"
	"go.uber.org/zap"
)

// topComments is how many comments a collapsed panel shows. The server always
// returns the full list; truncation happens here.
const topComments = 2

var ErrClosed = errors.New("view model is closed")

// API is the remote collaborator the view model needs. *api.Client satisfies
// it; tests inject fakes.
type API interface {
	Comments(ctx context.Context, postID int64) ([]api.Comment, error)
	CreateComment(ctx context.Context, postID int64, text string) (*api.Comment, error)
	ToggleLike(ctx context.Context, postID int64) (*api.LikeStatus, error)
	DeletePost(ctx context.Context, postID int64) error
}

// InteractionState is the transient per-post UI state: comment disclosure,
// the cached comment subset, drafts and in-flight flags. Entries are created
// lazily on first interaction and removed together with the post.
type InteractionState struct {
	CommentsVisible bool
	InputVisible    bool
	ShowAll         bool
	Comments        []api.Comment
	LikePending     bool
	CommentPending  bool
	FetchPending    bool
	FetchAllPending bool
	DeletePending   bool
	Draft           string
}

// ViewModel mediates every like/comment side effect for the posts in its
// store. It is constructed per view and must be closed on navigation so that
// responses landing afterwards are discarded.
//
// Server responses are authoritative: like counts are never computed locally.
type ViewModel struct {
	api    API
	store  *Store
	logger *zap.Logger

	mu     sync.Mutex
	states map[int64]*InteractionState
	closed bool
}

func NewViewModel(remote API, store *Store, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		api:    remote,
		store:  store,
		logger: logger,
		states: make(map[int64]*InteractionState),
	}
}

func (vm *ViewModel) Store() *Store {
	return vm.store
}

// Close tears the view model down. Outstanding requests run to completion but
// their results are dropped.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.closed = true
	vm.states = make(map[int64]*InteractionState)
}

// stateLocked returns the interaction state for a post, creating it on first
// use. Callers must hold vm.mu.
func (vm *ViewModel) stateLocked(postID int64) *InteractionState {
	st, ok := vm.states[postID]
	if !ok {
		st = &InteractionState{}
		vm.states[postID] = st
	}
	return st
}

// State returns a snapshot of a post's interaction state. The second result
// is false if the post has never been interacted with.
func (vm *ViewModel) State(postID int64) (InteractionState, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	st, ok := vm.states[postID]
	if !ok {
		return InteractionState{}, false
	}

	snapshot := *st
	snapshot.Comments = make([]api.Comment, len(st.Comments))
	copy(snapshot.Comments, st.Comments)
	return snapshot, true
}

func (vm *ViewModel) Posts() []api.Post {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.store.All()
}

// SetDraft records the compose box contents for a post.
func (vm *ViewModel) SetDraft(postID int64, text string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.closed {
		return
	}
	vm.stateLocked(postID).Draft = text
}

// ToggleCommentsVisible opens the comments panel for a post, showing the
// compose box when withInput is set. On a panel that is already open only the
// compose box flag changes. The first open with an empty cache fetches the
// comment list; repeated opens never start a second fetch while one is in
// flight.
func (vm *ViewModel) ToggleCommentsVisible(ctx context.Context, postID int64, withInput bool) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}

	st := vm.stateLocked(postID)
	if st.CommentsVisible {
		st.InputVisible = withInput
		vm.mu.Unlock()
		return nil
	}

	st.CommentsVisible = true
	st.InputVisible = withInput
	if len(st.Comments) > 0 || st.FetchPending || st.FetchAllPending {
		vm.mu.Unlock()
		return nil
	}
	st.FetchPending = true
	vm.mu.Unlock()

	comments, err := vm.api.Comments(ctx, postID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return nil
	}
	st, ok := vm.states[postID]
	if !ok {
		return nil
	}
	st.FetchPending = false
	if err != nil {
		vm.logger.Sugar().Errorf("failed to fetch comments for post(%d): %s", postID, err.Error())
		return vm.failLocked(postID, err)
	}

	st.Comments = truncate(comments, st.ShowAll)
	return nil
}

// CloseComments collapses the panel. The top of the comment cache is kept so
// reopening needs no fetch.
func (vm *ViewModel) CloseComments(postID int64) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	st, ok := vm.states[postID]
	if !ok {
		return
	}

	st.CommentsVisible = false
	st.InputVisible = false
	st.ShowAll = false
	st.Comments = truncate(st.Comments, false)
}

// LoadAllComments fetches the full comment list and expands the panel to show
// it. Calling it again re-fetches, picking up comments added since. Only a
// full fetch already in flight coalesces the call; a concurrent top-of-list
// fetch never swallows it, since whichever response lands last re-truncates
// against the ShowAll flag set here.
func (vm *ViewModel) LoadAllComments(ctx context.Context, postID int64) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}

	st := vm.stateLocked(postID)
	if st.FetchAllPending {
		vm.mu.Unlock()
		return nil
	}
	st.FetchAllPending = true
	vm.mu.Unlock()

	comments, err := vm.api.Comments(ctx, postID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return nil
	}
	st, ok := vm.states[postID]
	if !ok {
		return nil
	}
	st.FetchAllPending = false
	if err != nil {
		vm.logger.Sugar().Errorf("failed to fetch all comments for post(%d): %s", postID, err.Error())
		return vm.failLocked(postID, err)
	}

	st.ShowAll = true
	st.Comments = comments
	return nil
}

// SubmitComment sends the comment and, once the server confirms it, bumps the
// post's comment count by one, clears the draft and refreshes the cached
// subset at its current page size. Blank text and re-entrant submissions are
// rejected without a network call. On failure the draft survives for retry.
func (vm *ViewModel) SubmitComment(ctx context.Context, postID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return &api.ValidationError{Message: "comment content must not be empty"}
	}

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}

	st := vm.stateLocked(postID)
	if st.CommentPending {
		vm.mu.Unlock()
		return nil
	}
	st.CommentPending = true
	vm.mu.Unlock()

	_, err := vm.api.CreateComment(ctx, postID, text)

	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return nil
	}
	st, ok := vm.states[postID]
	if !ok {
		vm.mu.Unlock()
		return nil
	}
	st.CommentPending = false
	if err != nil {
		vm.logger.Sugar().Errorf("failed to submit comment for post(%d): %s", postID, err.Error())
		failErr := vm.failLocked(postID, err)
		vm.mu.Unlock()
		return failErr
	}

	st.Draft = ""
	vm.store.Apply(postID, func(post *api.Post) {
		post.CommentCount++
	})
	showAll := st.ShowAll
	st.FetchPending = true
	vm.mu.Unlock()

	// Refresh so the new comment appears at the current page size. The count
	// is already confirmed; a failed refresh leaves a transient mismatch that
	// the next fetch corrects.
	comments, err := vm.api.Comments(ctx, postID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return nil
	}
	st, ok = vm.states[postID]
	if !ok {
		return nil
	}
	st.FetchPending = false
	if err != nil {
		vm.logger.Sugar().Errorf("failed to refresh comments for post(%d): %s", postID, err.Error())
		return vm.failLocked(postID, err)
	}

	st.Comments = truncate(comments, showAll)
	return nil
}

// ToggleLike flips the like on a post and overwrites both the liked flag and
// the count from the server payload. Nothing is updated optimistically; on
// failure the displayed state is untouched.
func (vm *ViewModel) ToggleLike(ctx context.Context, postID int64) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}

	st := vm.stateLocked(postID)
	if st.LikePending {
		vm.mu.Unlock()
		return nil
	}
	st.LikePending = true
	vm.mu.Unlock()

	status, err := vm.api.ToggleLike(ctx, postID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return nil
	}
	st, ok := vm.states[postID]
	if !ok {
		return nil
	}
	st.LikePending = false
	if err != nil {
		vm.logger.Sugar().Errorf("failed to toggle like for post(%d): %s", postID, err.Error())
		return vm.failLocked(postID, err)
	}

	vm.store.Apply(postID, func(post *api.Post) {
		post.IsLiked = status.Liked
		post.LikeCount = status.LikeCount
	})
	return nil
}

// RemovePost deletes the post server-side, then drops it and its interaction
// state in one critical section. A post already gone server-side is evicted
// the same way. Re-entrant calls while the delete is in flight are dropped.
func (vm *ViewModel) RemovePost(ctx context.Context, postID int64) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	st := vm.stateLocked(postID)
	if st.DeletePending {
		vm.mu.Unlock()
		return nil
	}
	st.DeletePending = true
	vm.mu.Unlock()

	err := vm.api.DeletePost(ctx, postID)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return nil
	}
	if st, ok := vm.states[postID]; ok {
		st.DeletePending = false
	}

	var notFound *api.NotFoundError
	if err != nil && !errors.As(err, &notFound) {
		vm.logger.Sugar().Errorf("failed to delete post(%d): %s", postID, err.Error())
		return err
	}

	vm.evictLocked(postID)
	return err
}

// failLocked applies the error policy of a failed per-post operation: a
// vanished target is evicted from local state, everything else is returned
// untouched for the caller to surface.
func (vm *ViewModel) failLocked(postID int64, err error) error {
	var notFound *api.NotFoundError
	if errors.As(err, &notFound) {
		vm.evictLocked(postID)
	}
	return err
}

// evictLocked removes a post and its interaction state together. Callers must
// hold vm.mu, which is what makes the removal atomic for every reader going
// through the view model.
func (vm *ViewModel) evictLocked(postID int64) {
	vm.store.Remove(postID)
	delete(vm.states, postID)
}

func truncate(comments []api.Comment, showAll bool) []api.Comment {
	if showAll || len(comments) <= topComments {
		return comments
	}
	return comments[:topComments]
}
