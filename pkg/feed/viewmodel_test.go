package feed_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Linksy/social-service/pkg/api"
	"github.com/Linksy/social-service/pkg/feed"
)

// fakeRemote behaves like the backend: it owns the comment lists and the like
// state, and counts how often each operation is hit. The mutex keeps it safe
// for tests that overlap requests.
type fakeRemote struct {
	mu         sync.Mutex
	comments   map[int64][]api.Comment
	liked      map[int64]bool
	likeCounts map[int64]int

	commentsCalls int
	createCalls   int
	toggleCalls   int
	deleteCalls   int

	failComments error
	failCreate   error
	failToggle   error
	failDelete   error

	nextCommentID int64
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		comments:   map[int64][]api.Comment{},
		liked:      map[int64]bool{},
		likeCounts: map[int64]int{},
	}
}

func (f *fakeRemote) seedComments(postID int64, n int) {
	for i := 0; i < n; i++ {
		f.nextCommentID++
		comment := api.Comment{
			ID:        f.nextCommentID,
			PostID:    postID,
			Content:   fmt.Sprintf("comment %d", f.nextCommentID),
			CreatedAt: time.Now().UTC(),
		}
		f.comments[postID] = append([]api.Comment{comment}, f.comments[postID]...)
	}
}

func (f *fakeRemote) Comments(ctx context.Context, postID int64) ([]api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentsCalls++
	if f.failComments != nil {
		return nil, f.failComments
	}
	list := f.comments[postID]
	out := make([]api.Comment, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeRemote) CreateComment(ctx context.Context, postID int64, text string) (*api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextCommentID++
	comment := api.Comment{ID: f.nextCommentID, PostID: postID, Content: text, CreatedAt: time.Now().UTC()}
	f.comments[postID] = append([]api.Comment{comment}, f.comments[postID]...)
	return &comment, nil
}

func (f *fakeRemote) ToggleLike(ctx context.Context, postID int64) (*api.LikeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls++
	if f.failToggle != nil {
		return nil, f.failToggle
	}
	if f.liked[postID] {
		f.liked[postID] = false
		f.likeCounts[postID]--
	} else {
		f.liked[postID] = true
		f.likeCounts[postID]++
	}
	return &api.LikeStatus{Liked: f.liked[postID], LikeCount: f.likeCounts[postID]}, nil
}

func (f *fakeRemote) DeletePost(ctx context.Context, postID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete != nil {
		return f.failDelete
	}
	delete(f.comments, postID)
	return nil
}

func newViewModel(remote feed.API, posts ...api.Post) *feed.ViewModel {
	store := feed.NewStore()
	store.Replace(posts)
	return feed.NewViewModel(remote, store, nil)
}

func TestToggleLike_DoubleTogglesBackToOriginal(t *testing.T) {
	remote := newFakeRemote()
	remote.likeCounts[1] = 3
	vm := newViewModel(remote, api.Post{ID: 1, LikeCount: 3, IsLiked: false})
	ctx := context.Background()

	if err := vm.ToggleLike(ctx, 1); err != nil {
		t.Fatalf("toggle like: %v", err)
	}
	post, _ := vm.Store().Get(1)
	if !post.IsLiked || post.LikeCount != 4 {
		t.Fatalf("expected liked=true count=4 got liked=%v count=%d", post.IsLiked, post.LikeCount)
	}

	if err := vm.ToggleLike(ctx, 1); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	post, _ = vm.Store().Get(1)
	if post.IsLiked || post.LikeCount != 3 {
		t.Fatalf("expected liked=false count=3 got liked=%v count=%d", post.IsLiked, post.LikeCount)
	}
}

func TestToggleLike_FailureLeavesStateUntouched(t *testing.T) {
	remote := newFakeRemote()
	remote.failToggle = &api.RequestError{Message: "boom"}
	vm := newViewModel(remote, api.Post{ID: 1, LikeCount: 3})
	ctx := context.Background()

	if err := vm.ToggleLike(ctx, 1); err == nil {
		t.Fatal("expected toggle error")
	}

	post, _ := vm.Store().Get(1)
	if post.IsLiked || post.LikeCount != 3 {
		t.Fatalf("state changed after failure: liked=%v count=%d", post.IsLiked, post.LikeCount)
	}
	st, ok := vm.State(1)
	if !ok || st.LikePending {
		t.Fatalf("expected pending flag cleared, state=%+v ok=%v", st, ok)
	}
}

func TestSubmitComment_BlankIsRejectedWithoutNetworkCall(t *testing.T) {
	remote := newFakeRemote()
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		err := vm.SubmitComment(ctx, 1, text)
		var validation *api.ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected validation error for %q, got %v", text, err)
		}
	}

	if remote.createCalls != 0 {
		t.Fatalf("expected no network calls, got %d", remote.createCalls)
	}
	post, _ := vm.Store().Get(1)
	if post.CommentCount != 5 {
		t.Fatalf("comment count changed: %d", post.CommentCount)
	}
}

func TestToggleCommentsVisible_FetchesAndTruncatesToTwo(t *testing.T) {
	remote := newFakeRemote()
	remote.seedComments(1, 5)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	if err := vm.ToggleCommentsVisible(ctx, 1, false); err != nil {
		t.Fatalf("toggle comments: %v", err)
	}

	st, ok := vm.State(1)
	if !ok {
		t.Fatal("expected interaction state")
	}
	if !st.CommentsVisible || st.InputVisible {
		t.Fatalf("unexpected visibility: %+v", st)
	}
	if len(st.Comments) != 2 {
		t.Fatalf("expected cached subset of 2, got %d", len(st.Comments))
	}
	if remote.commentsCalls != 1 {
		t.Fatalf("expected 1 fetch, got %d", remote.commentsCalls)
	}

	// An open panel only updates the input flag, without re-closing or
	// re-fetching.
	if err := vm.ToggleCommentsVisible(ctx, 1, true); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	st, _ = vm.State(1)
	if !st.CommentsVisible || !st.InputVisible {
		t.Fatalf("expected open panel with input, got %+v", st)
	}
	if remote.commentsCalls != 1 {
		t.Fatalf("expected no extra fetch, got %d", remote.commentsCalls)
	}
}

func TestCloseComments_KeepsCacheAndSkipsRefetch(t *testing.T) {
	remote := newFakeRemote()
	remote.seedComments(1, 5)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	if err := vm.ToggleCommentsVisible(ctx, 1, false); err != nil {
		t.Fatalf("open: %v", err)
	}
	vm.CloseComments(1)

	st, _ := vm.State(1)
	if st.CommentsVisible || st.InputVisible || st.ShowAll {
		t.Fatalf("expected cleared flags, got %+v", st)
	}
	if len(st.Comments) != 2 {
		t.Fatalf("expected cache kept, got %d comments", len(st.Comments))
	}

	if err := vm.ToggleCommentsVisible(ctx, 1, true); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if remote.commentsCalls != 1 {
		t.Fatalf("expected cached reopen without fetch, got %d calls", remote.commentsCalls)
	}
	st, _ = vm.State(1)
	if len(st.Comments) != 2 {
		t.Fatalf("expected min(2, total) after reopen, got %d", len(st.Comments))
	}
}

func TestLoadAllComments_ReplacesSubsetAndSetsShowAll(t *testing.T) {
	remote := newFakeRemote()
	remote.seedComments(1, 5)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	if err := vm.LoadAllComments(ctx, 1); err != nil {
		t.Fatalf("load all: %v", err)
	}

	st, _ := vm.State(1)
	if !st.ShowAll {
		t.Fatal("expected show-all set")
	}
	if len(st.Comments) != 5 {
		t.Fatalf("expected all 5 comments, got %d", len(st.Comments))
	}

	// Re-loading is not short-circuited: it picks up new comments.
	remote.seedComments(1, 1)
	if err := vm.LoadAllComments(ctx, 1); err != nil {
		t.Fatalf("reload: %v", err)
	}
	st, _ = vm.State(1)
	if len(st.Comments) != 6 {
		t.Fatalf("expected 6 comments after reload, got %d", len(st.Comments))
	}
	if remote.commentsCalls != 2 {
		t.Fatalf("expected 2 fetches, got %d", remote.commentsCalls)
	}
}

func TestSubmitComment_Walkthrough(t *testing.T) {
	remote := newFakeRemote()
	remote.seedComments(1, 5)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	if err := vm.ToggleCommentsVisible(ctx, 1, false); err != nil {
		t.Fatalf("open: %v", err)
	}
	st, _ := vm.State(1)
	if len(st.Comments) != 2 {
		t.Fatalf("expected top 2, got %d", len(st.Comments))
	}

	if err := vm.LoadAllComments(ctx, 1); err != nil {
		t.Fatalf("load all: %v", err)
	}
	st, _ = vm.State(1)
	if len(st.Comments) != 5 || !st.ShowAll {
		t.Fatalf("expected 5 comments with show-all, got %d showAll=%v", len(st.Comments), st.ShowAll)
	}

	vm.SetDraft(1, "hi")
	if err := vm.SubmitComment(ctx, 1, "hi"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	post, _ := vm.Store().Get(1)
	if post.CommentCount != 6 {
		t.Fatalf("expected comment count 6, got %d", post.CommentCount)
	}
	st, _ = vm.State(1)
	if len(st.Comments) != 6 {
		t.Fatalf("expected refreshed subset of 6, got %d", len(st.Comments))
	}
	if !st.ShowAll {
		t.Fatal("show-all flag lost")
	}
	if st.Draft != "" {
		t.Fatalf("expected cleared draft, got %q", st.Draft)
	}
	if st.Comments[0].Content != "hi" {
		t.Fatalf("expected new comment first, got %q", st.Comments[0].Content)
	}
}

func TestSubmitComment_FailureKeepsDraft(t *testing.T) {
	remote := newFakeRemote()
	remote.failCreate = &api.RequestError{Message: "server unavailable"}
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 2})
	ctx := context.Background()

	vm.SetDraft(1, "my comment")
	if err := vm.SubmitComment(ctx, 1, "my comment"); err == nil {
		t.Fatal("expected submit error")
	}

	st, _ := vm.State(1)
	if st.CommentPending {
		t.Fatal("pending flag not cleared")
	}
	if st.Draft != "my comment" {
		t.Fatalf("expected draft kept, got %q", st.Draft)
	}
	post, _ := vm.Store().Get(1)
	if post.CommentCount != 2 {
		t.Fatalf("comment count changed: %d", post.CommentCount)
	}
}

func TestRemovePost_RemovesPostAndStateTogether(t *testing.T) {
	remote := newFakeRemote()
	remote.seedComments(1, 3)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 3}, api.Post{ID: 2})
	ctx := context.Background()

	if err := vm.ToggleCommentsVisible(ctx, 1, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := vm.RemovePost(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, ok := vm.Store().Get(1); ok {
		t.Fatal("post still in store")
	}
	if _, ok := vm.State(1); ok {
		t.Fatal("interaction state still present")
	}
	if _, ok := vm.Store().Get(2); !ok {
		t.Fatal("unrelated post affected")
	}
}

func TestRemovePost_NotFoundEvictsStalePost(t *testing.T) {
	remote := newFakeRemote()
	remote.failDelete = &api.NotFoundError{Message: "post not found"}
	vm := newViewModel(remote, api.Post{ID: 1})
	ctx := context.Background()

	err := vm.RemovePost(ctx, 1)
	var notFound *api.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, ok := vm.Store().Get(1); ok {
		t.Fatal("stale post not evicted")
	}
}

func TestToggleLike_IsolatedPerPost(t *testing.T) {
	remote := newFakeRemote()
	remote.failToggle = &api.RequestError{Message: "boom"}
	vm := newViewModel(remote, api.Post{ID: 1, LikeCount: 1}, api.Post{ID: 2, LikeCount: 7})
	ctx := context.Background()

	if err := vm.ToggleLike(ctx, 1); err == nil {
		t.Fatal("expected error")
	}

	remote.failToggle = nil
	remote.likeCounts[2] = 7
	if err := vm.ToggleLike(ctx, 2); err != nil {
		t.Fatalf("toggle post 2: %v", err)
	}
	post, _ := vm.Store().Get(2)
	if !post.IsLiked || post.LikeCount != 8 {
		t.Fatalf("post 2 not updated: liked=%v count=%d", post.IsLiked, post.LikeCount)
	}
}

// blockingRemote parks Comments calls until released, to exercise in-flight
// behavior.
type blockingRemote struct {
	*fakeRemote
	release chan struct{}
	started chan struct{}
}

func (b *blockingRemote) Comments(ctx context.Context, postID int64) ([]api.Comment, error) {
	b.started <- struct{}{}
	<-b.release
	return b.fakeRemote.Comments(ctx, postID)
}

func TestToggleCommentsVisible_NoDuplicateFetchWhileInFlight(t *testing.T) {
	remote := &blockingRemote{
		fakeRemote: newFakeRemote(),
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	remote.seedComments(1, 3)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 3})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- vm.ToggleCommentsVisible(ctx, 1, false) }()
	<-remote.started

	// The second open must not start another fetch.
	vm.CloseComments(1)
	if err := vm.ToggleCommentsVisible(ctx, 1, false); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("first open: %v", err)
	}
	if remote.commentsCalls != 1 {
		t.Fatalf("expected a single fetch, got %d", remote.commentsCalls)
	}
}

func TestClose_DiscardsStaleResponses(t *testing.T) {
	remote := &blockingRemote{
		fakeRemote: newFakeRemote(),
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	remote.seedComments(1, 3)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 3})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- vm.ToggleCommentsVisible(ctx, 1, false) }()
	<-remote.started

	vm.Close()
	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from torn-down fetch: %v", err)
	}

	if _, ok := vm.State(1); ok {
		t.Fatal("state mutated after close")
	}
	if err := vm.ToggleCommentsVisible(ctx, 1, false); !errors.Is(err, feed.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLoadAllComments_NotSwallowedByInitialFetch(t *testing.T) {
	remote := &blockingRemote{
		fakeRemote: newFakeRemote(),
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	remote.seedComments(1, 5)
	vm := newViewModel(remote, api.Post{ID: 1, CommentCount: 5})
	ctx := context.Background()

	openDone := make(chan error, 1)
	go func() { openDone <- vm.ToggleCommentsVisible(ctx, 1, false) }()
	<-remote.started

	// Asking for the full list while the top-of-list fetch is still in
	// flight must start its own fetch, not be dropped.
	allDone := make(chan error, 1)
	go func() { allDone <- vm.LoadAllComments(ctx, 1) }()
	<-remote.started

	close(remote.release)
	if err := <-openDone; err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := <-allDone; err != nil {
		t.Fatalf("load all: %v", err)
	}

	if remote.commentsCalls != 2 {
		t.Fatalf("expected two fetches, got %d", remote.commentsCalls)
	}
	st, ok := vm.State(1)
	if !ok {
		t.Fatal("no interaction state")
	}
	if !st.ShowAll {
		t.Fatal("show-all intent was dropped")
	}
	if len(st.Comments) != 5 {
		t.Fatalf("expected the full list of 5 comments, got %d", len(st.Comments))
	}
}

// blockingDeleteRemote parks DeletePost calls until released.
type blockingDeleteRemote struct {
	*fakeRemote
	release chan struct{}
	started chan struct{}
}

func (b *blockingDeleteRemote) DeletePost(ctx context.Context, postID int64) error {
	b.started <- struct{}{}
	<-b.release
	return b.fakeRemote.DeletePost(ctx, postID)
}

func TestRemovePost_NoDuplicateDeleteWhileInFlight(t *testing.T) {
	remote := &blockingDeleteRemote{
		fakeRemote: newFakeRemote(),
		release:    make(chan struct{}),
		started:    make(chan struct{}, 1),
	}
	vm := newViewModel(remote, api.Post{ID: 1})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- vm.RemovePost(ctx, 1) }()
	<-remote.started

	// A second click while the delete is in flight is a no-op.
	if err := vm.RemovePost(ctx, 1); err != nil {
		t.Fatalf("re-entrant remove: %v", err)
	}

	close(remote.release)
	if err := <-done; err != nil {
		t.Fatalf("remove: %v", err)
	}

	if remote.deleteCalls != 1 {
		t.Fatalf("expected a single delete request, got %d", remote.deleteCalls)
	}
	if _, ok := vm.Store().Get(1); ok {
		t.Fatal("post still present after remove")
	}
}
