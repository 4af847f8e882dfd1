package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"brokerdash/server/config"
	"brokerdash/server/internal/analytics"
	"brokerdash/server/internal/cache"
	"brokerdash/server/internal/crm"
	"brokerdash/server/internal/models"
)

// Service orchestrates one aggregation per dashboard view: it issues every
// entity fetch a view needs concurrently, awaits the full set, folds the raw
// collections through the analytics routines and caches the result under the
// query parameters. A superseded query's result is simply never read; no
// in-flight abort is attempted beyond context cancellation.
type Service struct {
	client *crm.Client
	cfg    *config.Config
	cache  *cache.Cache
	logger *logrus.Logger
	won    analytics.StageSet

	// now is swappable for tests
	now func() time.Time
}

func NewService(client *crm.Client, cfg *config.Config, results *cache.Cache, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Service{
		client: client,
		cfg:    cfg,
		cache:  results,
		logger: logger,
		won:    analytics.NewStageSet(cfg.DealStagesWon),
		now:    time.Now,
	}
}

// runAll executes the given fetches concurrently and returns the first error
// in argument order. All fetches are awaited before folding begins.
func runAll(fns ...func() error) error {
	var wg sync.WaitGroup
	errs := make([]error, len(fns))
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Management(ctx context.Context, year int) (*models.ManagementReport, error) {
	key := "management:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.ManagementReport), nil
	}

	var (
		deals   []models.Deal
		fields  map[string]models.FieldMeta
		sources []models.StatusEntry
	)
	err := runAll(
		func() (err error) { deals, err = s.client.DealsByYear(ctx, year); return },
		func() (err error) { fields, err = s.client.DealFields(ctx); return },
		func() (err error) { sources, err = s.client.Statuses(ctx, "SOURCE"); return },
	)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildManagement(deals, fields, sources, s.cfg.Fields, s.won)
	s.cache.Set(key, &report)
	return &report, nil
}

func (s *Service) OverallDeals(ctx context.Context, year int) (*models.OverallDealsReport, error) {
	key := "overall-deals:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.OverallDealsReport), nil
	}

	var (
		deals  []models.Deal
		fields map[string]models.FieldMeta
	)
	err := runAll(
		func() (err error) { deals, err = s.client.DealsByYear(ctx, year); return },
		func() (err error) { fields, err = s.client.DealFields(ctx); return },
	)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildOverallDeals(deals, fields, s.cfg.Fields, s.won)
	s.cache.Set(key, &report)
	return &report, nil
}

func (s *Service) Overview(ctx context.Context, year int) (*models.OverviewReport, error) {
	key := "overview:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.OverviewReport), nil
	}

	var (
		leads    []models.Lead
		sources  []models.StatusEntry
		statuses []models.StatusEntry
		fields   map[string]models.FieldMeta
	)
	err := runAll(
		func() (err error) { leads, err = s.client.LeadsByYear(ctx, year); return },
		func() (err error) { sources, err = s.client.Statuses(ctx, "SOURCE"); return },
		func() (err error) { statuses, err = s.client.Statuses(ctx, "STATUS"); return },
		func() (err error) { fields, err = s.client.LeadFields(ctx); return },
	)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildOverview(leads, sources, statuses, fields, s.cfg.Fields.LeadLocation, s.now())
	s.cache.Set(key, &report)
	return &report, nil
}

func (s *Service) StatusBoard(ctx context.Context, year int) (*models.StatusBoardReport, error) {
	key := "status-board:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.StatusBoardReport), nil
	}

	var (
		leads    []models.Lead
		statuses []models.StatusEntry
		sources  []models.StatusEntry
		users    []models.User
	)
	err := runAll(
		func() (err error) { leads, err = s.client.LeadsByYear(ctx, year); return },
		func() (err error) { statuses, err = s.client.Statuses(ctx, "STATUS"); return },
		func() (err error) { sources, err = s.client.Statuses(ctx, "SOURCE"); return },
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
	)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildStatusBoard(leads, statuses, sources, users, s.now())
	s.cache.Set(key, &report)
	return &report, nil
}

func (s *Service) Teams(ctx context.Context) ([]models.TeamSummary, error) {
	key := "teams"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.TeamSummary), nil
	}

	var (
		users       []models.User
		departments []models.Department
	)
	err := runAll(
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
		func() (err error) { departments, err = s.client.Departments(ctx); return },
	)
	if err != nil {
		return nil, err
	}

	teams := analytics.BuildTeams(users, departments)
	s.cache.Set(key, teams)
	return teams, nil
}

func (s *Service) Agents(ctx context.Context, year int) ([]models.AgentProfile, error) {
	key := "agents:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.AgentProfile), nil
	}

	var (
		users       []models.User
		departments []models.Department
		leads       []models.Lead
		deals       []models.Deal
		sources     []models.StatusEntry
	)
	err := runAll(
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
		func() (err error) { departments, err = s.client.Departments(ctx); return },
		func() (err error) { leads, err = s.client.LeadsByYear(ctx, year); return },
		func() (err error) { deals, err = s.client.WonDealsByYear(ctx, year); return },
		func() (err error) { sources, err = s.client.Statuses(ctx, "SOURCE"); return },
	)
	if err != nil {
		return nil, err
	}

	profiles := analytics.BuildAgentProfiles(users, departments, leads, deals, sources, s.cfg.Fields)
	s.cache.Set(key, profiles)
	return profiles, nil
}

func (s *Service) AgentTransactions(ctx context.Context, year int) ([]models.AgentTransaction, error) {
	key := "agent-transactions:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.AgentTransaction), nil
	}

	var (
		users       []models.User
		departments []models.Department
		deals       []models.Deal
	)
	err := runAll(
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
		func() (err error) { departments, err = s.client.Departments(ctx); return },
		func() (err error) { deals, err = s.client.WonDealsByYear(ctx, year); return },
	)
	if err != nil {
		return nil, err
	}

	transactions := analytics.BuildAgentTransactions(users, departments, deals, s.cfg.Fields)
	s.cache.Set(key, transactions)
	return transactions, nil
}

// AgentList returns the id/name options for the agent dropdown.
func (s *Service) AgentList(ctx context.Context) ([]models.AgentOption, error) {
	key := "agent-list"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.AgentOption), nil
	}

	users, err := s.client.ActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]models.AgentOption, 0, len(users))
	for _, user := range users {
		options = append(options, models.AgentOption{ID: user.ID, Name: user.FullName()})
	}
	s.cache.Set(key, options)
	return options, nil
}

func (s *Service) AgentRanking(ctx context.Context, agentID string) (*models.AgentRankings, error) {
	key := "agent-ranking:" + agentID
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.AgentRankings), nil
	}

	deals, err := s.client.DealsByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}

	rankings := analytics.BuildAgentRankings(deals, s.cfg.Fields.GrossCommission)
	s.cache.Set(key, &rankings)
	return &rankings, nil
}

func (s *Service) RankingSplit(ctx context.Context, year int) ([]models.AgentSplit, error) {
	key := "ranking-split:" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.AgentSplit), nil
	}

	var (
		users []models.User
		deals []models.Deal
	)
	err := runAll(
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
		func() (err error) { deals, err = s.client.WonDealsByYear(ctx, year); return },
	)
	if err != nil {
		return nil, err
	}

	splits := analytics.BuildRankingSplit(users, deals, s.cfg.Fields.GrossCommission)
	s.cache.Set(key, splits)
	return splits, nil
}

func (s *Service) Finance(ctx context.Context) (*models.FinanceReport, error) {
	key := "finance"
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.FinanceReport), nil
	}

	now := s.now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -5, 0)

	var (
		users       []models.User
		departments []models.Department
		deals       []models.Deal
	)
	err := runAll(
		func() (err error) { users, err = s.client.ActiveUsers(ctx); return },
		func() (err error) { departments, err = s.client.Departments(ctx); return },
		func() (err error) {
			deals, err = s.client.WonDealsByRange(ctx, windowStart.Format("2006-01-02"), now.Format("2006-01-02"))
			return
		},
	)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildFinance(users, departments, deals, s.cfg.Fields.NetCommission, now)
	s.cache.Set(key, &report)
	return &report, nil
}

func (s *Service) DealsMonitoring(ctx context.Context, page int) (*models.MonitoringPage, error) {
	if page < 1 {
		page = 1
	}
	key := "deals-monitoring:" + strconv.Itoa(page)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.MonitoringPage), nil
	}

	start := (page - 1) * s.cfg.DealsPageSize

	var (
		deals  []models.Deal
		total  int
		fields map[string]models.FieldMeta
	)
	err := runAll(
		func() (err error) { deals, total, err = s.client.DealsPage(ctx, start); return },
		func() (err error) { fields, err = s.client.DealFields(ctx); return },
	)
	if err != nil {
		return nil, err
	}

	result := &models.MonitoringPage{
		Rows:     analytics.BuildMonitoringRows(deals, fields, s.cfg.Fields),
		Total:    total,
		PageSize: s.cfg.DealsPageSize,
	}
	s.cache.Set(key, result)
	return result, nil
}

// Report assembles a tabular export for the given metric over a trailing
// period ("7d", "30d" or "90d"), optionally restricted to one department's
// members. teamID "All" or "" means no restriction.
func (s *Service) Report(ctx context.Context, metric, period, teamID string) (*models.Report, error) {
	now := s.now()
	start := now
	switch period {
	case "30d":
		start = now.AddDate(0, 0, -30)
	case "90d":
		start = now.AddDate(0, -3, 0)
	default:
		start = now.AddDate(0, 0, -7)
	}
	startDate := start.Format("2006-01-02")
	endDate := now.Format("2006-01-02")

	filterByTeam := teamID != "" && teamID != "All"

	var users []models.User
	if filterByTeam || metric != "Leads" {
		var err error
		if users, err = s.client.ActiveUsers(ctx); err != nil {
			return nil, err
		}
	}

	switch metric {
	case "Revenue", "Deals", "Commission":
		deals, err := s.client.WonDealsByRange(ctx, startDate, endDate)
		if err != nil {
			return nil, err
		}
		if filterByTeam {
			deals = analytics.FilterDealsByAssignees(deals, analytics.TeamMemberIDs(users, teamID))
		}
		report := analytics.BuildDealReport(metric, deals, users, s.cfg.Fields)
		return &report, nil
	case "Leads":
		var (
			leads    []models.Lead
			statuses []models.StatusEntry
			sources  []models.StatusEntry
		)
		err := runAll(
			func() (err error) { leads, err = s.client.LeadsByRange(ctx, startDate, endDate); return },
			func() (err error) { statuses, err = s.client.Statuses(ctx, "STATUS"); return },
			func() (err error) { sources, err = s.client.Statuses(ctx, "SOURCE"); return },
		)
		if err != nil {
			return nil, err
		}
		if filterByTeam {
			leads = analytics.FilterLeadsByAssignees(leads, analytics.TeamMemberIDs(users, teamID))
		}
		report := analytics.BuildLeadReport(leads, users, statuses, sources)
		return &report, nil
	default:
		return nil, fmt.Errorf("unsupported report metric %q", metric)
	}
}

// Departments exposes the org-unit directory for dropdowns.
func (s *Service) Departments(ctx context.Context) ([]models.Department, error) {
	key := "departments"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Department), nil
	}

	departments, err := s.client.Departments(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, departments)
	return departments, nil
}
