package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ticket-dashboard/internal/chart"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/session"
	"github.com/spec-kit/ticket-dashboard/internal/ui"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// StatsAPI is the part of the ticket API the statistics page needs.
type StatsAPI interface {
	StatsByStatus(ctx context.Context) ([]domain.StatRow, error)
	StatsByPriority(ctx context.Context) ([]domain.StatRow, error)
	StatsByCategory(ctx context.Context) ([]domain.StatRow, error)
	RecentTickets(ctx context.Context, days int, now time.Time) ([]domain.Ticket, error)
}

// SummaryCard is one figure of the summary row.
type SummaryCard struct {
	Label string
	Value any
	Class string
}

// DashboardView is the render model of the statistics page.
type DashboardView struct {
	Loaded   bool
	Region   *ui.Region
	Cards    []SummaryCard
	Charts   []chart.Chart
	LoadedAt string
	Version  int64
}

// StatsService loads the three aggregates and turns them into charts.
type StatsService struct {
	api           StatsAPI
	categoryLimit int
	recentDays    int
	logger        *zap.Logger
	now           func() time.Time
	toastTTL      time.Duration
}

// StatsDependencies bundles collaborators of StatsService.
type StatsDependencies struct {
	API           StatsAPI
	CategoryLimit int
	RecentDays    int
	Logger        *zap.Logger
	Clock         func() time.Time
	ToastTTL      time.Duration
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	limit := deps.CategoryLimit
	if limit <= 0 {
		limit = 6
	}
	days := deps.RecentDays
	if days <= 0 {
		days = 7
	}
	return &StatsService{
		api:           deps.API,
		categoryLimit: limit,
		recentDays:    days,
		logger:        logger,
		now:           clock,
		toastTTL:      deps.ToastTTL,
	}
}

// LoadAll fetches the three aggregates concurrently. Either all of them are
// stored or, on any failure, the previous snapshot is kept and a single error
// toast is queued. The recent-ticket count is best effort and never fails the
// load.
func (s *StatsService) LoadAll(ctx context.Context, st *session.State) bool {
	var status, priority, category []domain.StatRow

	recentCh := make(chan *int, 1)
	go func() {
		recentCh <- s.recentCount(ctx)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.api.StatsByStatus(gctx)
		status = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.api.StatsByPriority(gctx)
		priority = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.api.StatsByCategory(gctx)
		category = rows
		return err
	})
	err := g.Wait()
	recent := <-recentCh
	if err != nil {
		s.logger.Warn("statistics load failed", zap.String("session_id", st.ID), zap.Error(err))
		st.Toasts.Push(ui.ToastError, "Failed to load statistics: "+apperrors.UserMessage(err), s.now(), s.toastTTL)
		return false
	}

	st.Stats = &session.StatsSnapshot{
		Status:      status,
		Priority:    priority,
		Category:    TopCategories(category, s.categoryLimit),
		RecentCount: recent,
		LoadedAt:    s.now(),
	}
	return true
}

func (s *StatsService) recentCount(ctx context.Context) *int {
	tickets, err := s.api.RecentTickets(ctx, s.recentDays, s.now())
	if err != nil {
		s.logger.Info("recent ticket count unavailable", zap.Error(err))
		return nil
	}
	n := len(tickets)
	return &n
}

// Dashboard renders the last snapshot held by st.
func (s *StatsService) Dashboard(st *session.State) DashboardView {
	snap := st.Stats
	if snap == nil {
		region := ui.Failure("Statistics are unavailable.")
		return DashboardView{Region: &region}
	}

	summary := domain.SummarizeStatus(snap.Status)
	var recent any = ui.Placeholder
	if snap.RecentCount != nil {
		recent = *snap.RecentCount
	}
	view := DashboardView{
		Loaded: true,
		Cards: []SummaryCard{
			{Label: "Total", Value: summary.Total, Class: "total"},
			{Label: "Open", Value: summary.Open, Class: "open"},
			{Label: "In progress", Value: summary.InProgress, Class: "inprogress"},
			{Label: "Closed", Value: summary.Closed, Class: "closed"},
			{Label: "Last 7 days", Value: recent, Class: "recent"},
		},
		LoadedAt: snap.LoadedAt.Format("02/01/2006 15:04:05"),
		Version:  snap.LoadedAt.UnixMilli(),
	}
	if s.recentDays != 7 {
		view.Cards[4].Label = "Last " + strconv.Itoa(s.recentDays) + " days"
	}
	for _, dim := range domain.StatDimensions {
		c, _ := s.Chart(st, dim)
		view.Charts = append(view.Charts, c)
	}
	return view
}

// Chart draws the donut of dim from the last snapshot.
func (s *StatsService) Chart(st *session.State, dim domain.StatDimension) (chart.Chart, bool) {
	if st.Stats == nil {
		return chart.DrawPie(nil, chart.SchemeFor(dim)), false
	}
	return chart.DrawPie(st.Stats.Rows(dim), chart.SchemeFor(dim)), true
}

// TopCategories keeps the first limit categories in API order; the API
// returns them largest first.
func TopCategories(rows []domain.StatRow, limit int) []domain.StatRow {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]domain.StatRow(nil), rows...)
}
