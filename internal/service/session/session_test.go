package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/fixtures"
	"lumina/internal/repository/memory"
	"lumina/internal/service/assistant"
	"lumina/internal/service/catalog"
	"lumina/internal/service/search"
	"lumina/internal/service/simulate"
	"lumina/internal/service/synthesis"
)

var epoch = time.Date(2024, 11, 1, 10, 42, 0, 0, time.UTC)

type fixedRand struct{ n int }

func (r fixedRand) Intn(n int) int { return r.n % n }

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("id-%d", c.n)
}

func newTestDeps(t *testing.T) (*Deps, *simulate.FakeClock) {
	t.Helper()

	set := fixtures.MustLoad()
	clock := simulate.NewFakeClock(epoch)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	docs := memory.NewDocumentStore(set.Documents)
	asst, err := assistant.NewService(docs, logger)
	require.NoError(t, err)

	ids := &counter{}
	return &Deps{
		Clock:     clock,
		Timings:   config.DefaultActionTimings(),
		Feed:      config.DefaultFeed(),
		Fixtures:  set,
		Search:    search.NewService(docs, logger),
		Assistant: asst,
		Catalog: catalog.NewService(
			docs,
			memory.NewCollectionStore(set.Collections),
			memory.NewCollaboratorStore(set.Collaborators),
			clock,
			logger,
		),
		Synth:   synthesis.NewGenerator(),
		NewRand: func() simulate.Rand { return fixedRand{n: 2} },
		NewID:   ids.next,
		Logger:  logger,
	}, clock
}

func newTestSession(t *testing.T) (*Session, *simulate.FakeClock) {
	t.Helper()
	deps, clock := newTestDeps(t)
	return New("s-1", deps), clock
}

func TestAsk_UserMessageIsImmediate(t *testing.T) {
	s, clock := newTestSession(t)

	tr, err := s.Ask("hello")
	require.NoError(t, err)
	require.Len(t, tr.Messages, 5)
	assert.Equal(t, mesh.ChatRoleUser, tr.Messages[4].Role)
	assert.Equal(t, "hello", tr.Messages[4].Content)
	assert.Equal(t, "10:42 AM", tr.Messages[4].Timestamp)
	assert.True(t, tr.Typing)

	clock.Advance(1499 * time.Millisecond)
	tr, _ = s.Transcript()
	assert.Len(t, tr.Messages, 5)

	clock.Advance(time.Millisecond)
	tr, _ = s.Transcript()
	require.Len(t, tr.Messages, 6)
	assert.Equal(t, mesh.ChatRoleAssistant, tr.Messages[5].Role)
	assert.Contains(t, tr.Messages[5].Content, "Lumina Intelligence Operator")
	assert.Empty(t, tr.Messages[5].Sources)
	assert.False(t, tr.Typing)
}

func TestAsk_BlankIsIgnored(t *testing.T) {
	s, clock := newTestSession(t)

	tr, err := s.Ask("   ")
	require.NoError(t, err)
	assert.True(t, tr.Ignored)
	assert.Len(t, tr.Messages, 4)
	assert.False(t, tr.Typing)
	assert.Zero(t, clock.Pending())
}

func TestAsk_RejectsOversizedMessage(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Ask(string(make([]byte, config.MaxMessageLength+1)))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAsk_RepliesAreSerialized(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Ask("hello")
	require.NoError(t, err)
	clock.Advance(500 * time.Millisecond)
	tr, err := s.Ask("Q3 Financial")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Queued)

	clock.Advance(time.Second)
	tr, _ = s.Transcript()
	require.Len(t, tr.Messages, 7)
	assert.Contains(t, tr.Messages[6].Content, "Lumina Intelligence Operator")
	assert.True(t, tr.Typing, "second reply still pending")
	assert.Zero(t, tr.Queued)

	clock.Advance(1500 * time.Millisecond)
	tr, _ = s.Transcript()
	require.Len(t, tr.Messages, 8)
	assert.Contains(t, tr.Messages[7].Content, "Q3 Financial Overview 2024")
	assert.False(t, tr.Typing)

	roles := make([]mesh.ChatRole, 0, 4)
	for _, m := range tr.Messages[4:] {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []mesh.ChatRole{
		mesh.ChatRoleUser, mesh.ChatRoleUser, mesh.ChatRoleAssistant, mesh.ChatRoleAssistant,
	}, roles)
}

func TestClearChat_AbandonsPendingReply(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Ask("hello")
	require.NoError(t, err)
	_, err = s.Ask("again")
	require.NoError(t, err)

	tr, err := s.ClearChat()
	require.NoError(t, err)
	assert.Empty(t, tr.Messages)
	assert.NotNil(t, tr.Messages)

	clock.Advance(5 * time.Second)
	tr, _ = s.Transcript()
	assert.Empty(t, tr.Messages)
	assert.False(t, tr.Typing)
}

func TestCancelAction_ReplyKeepsChatUsable(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Ask("hello")
	require.NoError(t, err)

	st, err := s.CancelAction(mesh.KindAskReply)
	require.NoError(t, err)
	assert.Equal(t, simulate.PhaseIdle, st.Phase)

	tr, err := s.Ask("orion")
	require.NoError(t, err)
	assert.True(t, tr.Typing)
	assert.Zero(t, tr.Queued)

	clock.Advance(time.Minute)
	tr, _ = s.Transcript()
	require.Len(t, tr.Messages, 7)
	last := tr.Messages[6]
	assert.Equal(t, mesh.ChatRoleAssistant, last.Role)
	assert.Contains(t, last.Content, "Orion")
	assert.False(t, tr.Typing)
	assert.Zero(t, clock.Pending())
}

func TestCancelAction_ReplyMovesToQueuedQuestion(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Ask("hello")
	require.NoError(t, err)
	_, err = s.Ask("Q3 Financial")
	require.NoError(t, err)

	st, err := s.CancelAction(mesh.KindAskReply)
	require.NoError(t, err)
	assert.Equal(t, simulate.PhasePending, st.Phase, "queued question starts at once")

	clock.Advance(1500 * time.Millisecond)
	tr, _ := s.Transcript()
	require.Len(t, tr.Messages, 7)
	assert.Contains(t, tr.Messages[6].Content, "Q3 Financial Overview 2024")
	assert.False(t, tr.Typing)
	assert.Zero(t, tr.Queued)
}

func TestCancelAction(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Invite(&mesh.InviteRequest{Email: "zoe@lumina.ai"})
	require.NoError(t, err)

	st, err := s.CancelAction(mesh.KindInvite)
	require.NoError(t, err)
	assert.Equal(t, simulate.PhaseIdle, st.Phase)

	clock.Advance(time.Minute)
	_, ok := s.invite.Result()
	assert.False(t, ok)

	_, err = s.CancelAction("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	s.Close()
	_, err = s.CancelAction(mesh.KindInvite)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestAskIfFresh(t *testing.T) {
	s, _ := newTestSession(t)

	tr, err := s.AskIfFresh("orion")
	require.NoError(t, err)
	assert.Len(t, tr.Messages, 4, "seeded transcript is not fresh")

	_, err = s.ClearChat()
	require.NoError(t, err)
	tr, err = s.AskIfFresh("orion")
	require.NoError(t, err)
	assert.Len(t, tr.Messages, 1)
	assert.True(t, tr.Typing)
}

func TestTranscriptIsACopy(t *testing.T) {
	s, _ := newTestSession(t)

	tr, _ := s.Transcript()
	tr.Messages[0].Content = "mutated"

	again, _ := s.Transcript()
	assert.Equal(t, "What was the revenue growth in Q3?", again.Messages[0].Content)
}

func TestSessionsAreIsolated(t *testing.T) {
	deps, _ := newTestDeps(t)
	a, b := New("a", deps), New("b", deps)

	_, err := a.ClearChat()
	require.NoError(t, err)

	tr, _ := b.Transcript()
	assert.Len(t, tr.Messages, 4)
	assert.Len(t, deps.Fixtures.Chat, 4)
}

func TestLiveFeed_BoundedHistory(t *testing.T) {
	s, clock := newTestSession(t)
	ctx := context.Background()

	started, err := s.StartLive()
	require.NoError(t, err)
	assert.True(t, started)

	again, _ := s.StartLive()
	assert.False(t, again)

	for i := 0; i < 12; i++ {
		clock.Advance(4 * time.Second)
		page, err := s.History(ctx, "", "all")
		require.NoError(t, err)
		assert.LessOrEqual(t, page.Total, config.DefaultFeedCapacity)
		assert.Equal(t, "AI Synthesizer", page.Events[0].User)
		assert.True(t, page.Live)
	}

	page, _ := s.History(ctx, "", "")
	assert.Equal(t, config.DefaultFeedCapacity, page.Total)

	stopped, err := s.StopLive()
	require.NoError(t, err)
	assert.True(t, stopped)

	clock.Advance(time.Minute)
	after, _ := s.History(ctx, "", "")
	assert.Equal(t, page.Events, after.Events)
	assert.False(t, after.Live)
}

func TestHistory_Filter(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	page, err := s.History(ctx, "", "rollback")
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "h4", page.Events[0].ID)

	page, err = s.History(ctx, "nothing matches", "all")
	require.NoError(t, err)
	assert.True(t, page.Reset)

	_, err = s.History(ctx, "", "delete")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRollback(t *testing.T) {
	s, clock := newTestSession(t)
	ctx := context.Background()

	_, err := s.Rollback(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	before, _ := s.History(ctx, "", "")
	st, err := s.Rollback(ctx, "h4")
	require.NoError(t, err)
	assert.Equal(t, simulate.PhasePending, st.Phase)

	clock.Advance(2500 * time.Millisecond)
	receipt, ok := s.rollback.Result()
	require.True(t, ok)
	assert.Equal(t, "Roadmap v2", receipt.Target)

	after, _ := s.History(ctx, "", "")
	assert.Equal(t, before.Events, after.Events, "rollback never mutates history")
}

func TestChecklist(t *testing.T) {
	passed := func(items []mesh.CheckItem) []bool {
		out := make([]bool, len(items))
		for i, it := range items {
			out[i] = it.Passed
		}
		return out
	}

	assert.Equal(t, []bool{false, false, false, false}, passed(Checklist(30)))
	assert.Equal(t, []bool{true, false, false, false}, passed(Checklist(32)))
	assert.Equal(t, []bool{true, true, true, false}, passed(Checklist(98)))
	assert.Equal(t, []bool{true, true, true, true}, passed(Checklist(100)))
}

func TestVerify(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Verify()
	require.NoError(t, err)

	clock.Advance(16 * 40 * time.Millisecond)
	report, st, err := s.VerifyState()
	require.NoError(t, err)
	assert.Equal(t, 32, report.Progress)
	assert.Equal(t, simulate.PhasePending, st.Phase)
	assert.True(t, report.Checklist[0].Passed)
	assert.False(t, report.Checklist[1].Passed)

	clock.Advance(2 * time.Second)
	report, st, _ = s.VerifyState()
	assert.Equal(t, 100, report.Progress)
	assert.True(t, report.Verified)
	assert.Equal(t, 1, st.Settles)
}

func TestUpload_Progress(t *testing.T) {
	s, clock := newTestSession(t)

	st, err := s.Upload("all", &mesh.UploadRequest{FileName: "brief.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Progress)
	assert.Equal(t, simulate.PhasePending, st.Phase)

	clock.Advance(750 * time.Millisecond)
	mid := s.upload.Status().Progress
	assert.Greater(t, mid, 0)
	assert.Less(t, mid, 100)

	clock.Advance(3 * time.Second)
	final := s.upload.Status()
	assert.Equal(t, 100, final.Progress)
	assert.Equal(t, simulate.PhaseSettled, final.Phase)
	assert.Equal(t, 1, final.Settles)

	receipt, ok := s.upload.Result()
	require.True(t, ok)
	assert.Equal(t, "brief.pdf", receipt.FileName)

	_, err = s.Upload("all", &mesh.UploadRequest{FileName: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProvision_Signature(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Provision(&mesh.ProvisionRequest{Name: "Research Vault"})
	require.NoError(t, err)
	clock.Advance(3 * time.Second)

	receipt, ok := s.provision.Result()
	require.True(t, ok)
	assert.Equal(t, "lumina_node_842x_signed", receipt.Signature)
	assert.Equal(t, mesh.VisibilityPrivate, receipt.Visibility)

	_, err = s.Provision(&mesh.ProvisionRequest{Name: "Second", Visibility: mesh.VisibilityTeam})
	require.NoError(t, err)
	clock.Advance(3 * time.Second)

	receipt, _ = s.provision.Result()
	assert.Equal(t, "lumina_node_843x_signed", receipt.Signature)

	cols, err := s.deps.Catalog.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Len(t, cols, 3, "provisioning never adds a collection")

	_, err = s.Provision(&mesh.ProvisionRequest{Name: "x", Visibility: "Secret"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestInvite(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.Invite(&mesh.InviteRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	st, err := s.Invite(&mesh.InviteRequest{Email: "zoe@lumina.ai"})
	require.NoError(t, err)
	assert.Equal(t, simulate.PhasePending, st.Phase)

	clock.Advance(2 * time.Second)
	receipt, ok := s.invite.Result()
	require.True(t, ok)
	assert.Equal(t, mesh.RoleViewer, receipt.Role)
}

func TestChangeRole_DoesNotMutate(t *testing.T) {
	s, clock := newTestSession(t)
	ctx := context.Background()

	_, err := s.ChangeRole(ctx, "u9", &mesh.RoleChangeRequest{Role: mesh.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.ChangeRole(ctx, "u3", &mesh.RoleChangeRequest{Role: mesh.RoleAdmin})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	ack, ok := s.role.Result()
	require.True(t, ok)
	assert.False(t, ack.Applied)
	assert.Equal(t, mesh.RoleViewer, ack.Current)

	member, _ := s.deps.Catalog.GetCollaborator(ctx, "u3")
	assert.Equal(t, mesh.RoleViewer, member.Role)
}

func TestAskDocument(t *testing.T) {
	s, clock := newTestSession(t)
	ctx := context.Background()

	q, err := s.AskDocument(ctx, "2", " ")
	require.NoError(t, err)
	assert.True(t, q.Ignored)
	assert.Equal(t, simulate.PhaseIdle, q.Status.Phase)

	q, err = s.AskDocument(ctx, "unknown", "revenue")
	require.NoError(t, err)
	assert.Equal(t, simulate.PhasePending, q.Status.Phase)

	clock.Advance(1500 * time.Millisecond)
	answer, ok := s.reader.Result()
	require.True(t, ok)
	assert.Equal(t, "1", answer.DocumentID)
	assert.Contains(t, answer.Reply.Content, "Q3 Financial Overview 2024")
}

func TestScanAndSynthesize(t *testing.T) {
	s, clock := newTestSession(t)
	ctx := context.Background()

	res, st, err := s.Scan(ctx, &mesh.SearchOptions{Query: "orion"})
	require.NoError(t, err)
	assert.Equal(t, simulate.PhasePending, st.Phase)

	_, err = s.Synthesize(ctx, "c3")
	require.NoError(t, err)

	clock.Advance(800 * time.Millisecond)
	scan, ok := s.scan.Result()
	require.True(t, ok)
	assert.Equal(t, res.Total, scan.Total)

	clock.Advance(3200 * time.Millisecond)
	syn, ok := s.synthesize.Result()
	require.True(t, ok)
	assert.Equal(t, "c3", syn.CollectionID)
	assert.Equal(t, 15, syn.NodeCount)
}

func TestClose_NoMutationAfterTeardown(t *testing.T) {
	s, clock := newTestSession(t)

	_, err := s.StartLive()
	require.NoError(t, err)
	_, err = s.Ask("hello")
	require.NoError(t, err)
	clock.Advance(4 * time.Second)

	_, err = s.Ask("again")
	require.NoError(t, err)
	_, err = s.Upload("all", &mesh.UploadRequest{FileName: "a.txt"})
	require.NoError(t, err)
	_, err = s.Verify()
	require.NoError(t, err)

	historyLen := s.history.Len()
	tr, _ := s.Transcript()
	messages := len(tr.Messages)

	assert.True(t, s.Close())
	assert.False(t, s.Close())
	assert.Zero(t, clock.Pending(), "teardown cancels every timer")

	clock.Advance(time.Minute)
	assert.Equal(t, historyLen, s.history.Len())
	assert.Equal(t, simulate.PhaseIdle, s.upload.Status().Phase)
	assert.Equal(t, simulate.PhaseIdle, s.verify.Status().Phase)
	assert.Equal(t, messages, len(s.transcript))
	assert.False(t, s.LiveRunning())

	_, err = s.Transcript()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Ask("hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.StartLive()
	assert.ErrorIs(t, err, ErrClosed)
}

// closingCatalog tears the session down in the middle of a lookup
type closingCatalog struct {
	meshSvc.CatalogService
	session *Session
}

func (c *closingCatalog) GetCollection(ctx context.Context, id string) (*mesh.CollectionDetail, error) {
	c.session.Close()
	return c.CatalogService.GetCollection(ctx, id)
}

func (c *closingCatalog) GetDocument(ctx context.Context, id string) (*mesh.Document, error) {
	c.session.Close()
	return c.CatalogService.GetDocument(ctx, id)
}

func TestClose_DuringStartNeverSettles(t *testing.T) {
	start := func(t *testing.T) (*Session, *simulate.FakeClock) {
		deps, clock := newTestDeps(t)
		cat := &closingCatalog{CatalogService: deps.Catalog}
		deps.Catalog = cat
		s := New("s-1", deps)
		cat.session = s
		return s, clock
	}

	t.Run("synthesize", func(t *testing.T) {
		s, clock := start(t)
		_, err := s.Synthesize(context.Background(), "c3")
		assert.ErrorIs(t, err, ErrClosed)
		assert.Zero(t, clock.Pending())

		clock.Advance(time.Minute)
		assert.Equal(t, simulate.PhaseIdle, s.synthesize.Status().Phase)
	})

	t.Run("reader query", func(t *testing.T) {
		s, clock := start(t)
		_, err := s.AskDocument(context.Background(), "1", "revenue")
		assert.ErrorIs(t, err, ErrClosed)
		assert.Zero(t, clock.Pending())

		clock.Advance(time.Minute)
		assert.Equal(t, simulate.PhaseIdle, s.reader.Status().Phase)
	})
}

func TestTracker(t *testing.T) {
	s, _ := newTestSession(t)

	for _, kind := range mesh.AllActionKinds {
		tr, err := s.Tracker(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, tr.Kind())
	}

	_, err := s.Tracker("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.Actions(), len(mesh.AllActionKinds))
}
