// Package allocator assigns dates, times and optionally courts to matchUps
// subject to court capacity, structural precedence, participant recovery,
// daily limits and operator blackout windows. The whole computation is a
// pure, single-process transformation of an in-memory snapshot; placement
// failures are bucketed in the result, never raised as errors.
package allocator

import (
	"sort"

	"go.uber.org/zap"

	"github.com/courtkeeper/scheduling-api/internal/engine/availability"
	"github.com/courtkeeper/scheduling-api/internal/engine/depgraph"
	"github.com/courtkeeper/scheduling-api/internal/models"
	appErrors "github.com/courtkeeper/scheduling-api/pkg/errors"
)

// Request describes one allocation run.
type Request struct {
	Tournament *models.Tournament
	Graph      depgraph.Graph
	// ScheduleDates restricts the run to a subset of profile dates. Empty
	// means every profile date.
	ScheduleDates []string
	Strategy      Strategy
	// DryRun computes the full result without mutating matchUp schedules.
	DryRun bool
	// ClearScheduleDates wipes existing schedule fields on the target
	// dates before allocating.
	ClearScheduleDates bool
	PeriodLength       int
	Defaults           Timing
	MaxIterations      int
}

// Result is the allocator's bucketed report. It is complete even on partial
// placement so operators can resolve conflicts incrementally.
type Result struct {
	ScheduledDates                 []string                                  `json:"scheduledDates"`
	ScheduledMatchUpIDs            map[string][]string                       `json:"scheduledMatchUpIds"`
	NoTimeMatchUpIDs               map[string][]string                       `json:"noTimeMatchUpIds"`
	MatchUpScheduleTimes           map[string]string                         `json:"matchUpScheduleTimes"`
	MatchUpNotBeforeTimes          map[string]string                         `json:"matchUpNotBeforeTimes"`
	ScheduleTimesRemaining         map[string]map[string][]string            `json:"scheduleTimesRemaining"`
	SkippedScheduleTimes           map[string]map[string][]string            `json:"skippedScheduleTimes"`
	IndividualParticipantProfiles  map[string]map[string]*ParticipantProfile `json:"individualParticipantProfiles"`
	RequestConflicts               map[string][]RequestConflict              `json:"requestConflicts"`
	OverLimitMatchUpIDs            map[string][]string                       `json:"overLimitMatchUpIds"`
	DependencyDeferredMatchUpIDs   map[string][]string                       `json:"dependencyDeferredMatchUpIds"`
	RecoveryTimeDeferredMatchUpIDs map[string][]string                       `json:"recoveryTimeDeferredMatchUpIds"`
	Iterations                     int                                       `json:"iterations,omitempty"`
}

func newResult() *Result {
	return &Result{
		ScheduledMatchUpIDs:            make(map[string][]string),
		NoTimeMatchUpIDs:               make(map[string][]string),
		MatchUpScheduleTimes:           make(map[string]string),
		MatchUpNotBeforeTimes:          make(map[string]string),
		ScheduleTimesRemaining:         make(map[string]map[string][]string),
		SkippedScheduleTimes:           make(map[string]map[string][]string),
		IndividualParticipantProfiles:  make(map[string]map[string]*ParticipantProfile),
		RequestConflicts:               make(map[string][]RequestConflict),
		OverLimitMatchUpIDs:            make(map[string][]string),
		DependencyDeferredMatchUpIDs:   make(map[string][]string),
		RecoveryTimeDeferredMatchUpIDs: make(map[string][]string),
	}
}

// Run executes the allocation described by the request.
func Run(req Request, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if req.Tournament == nil {
		return nil, appErrors.ErrMissingTournamentRecord
	}
	if req.PeriodLength <= 0 {
		req.PeriodLength = 30
	}
	if req.Defaults.AverageMinutes <= 0 {
		req.Defaults.AverageMinutes = 90
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = 10
	}

	run := &run{
		req:        req,
		tournament: req.Tournament,
		graph:      req.Graph,
		lookup:     NewTimingLookup(req.Tournament.ScheduleTiming, req.Defaults),
		working:    make(map[string]models.Schedule),
		dependents: directDependents(req.Graph),
		result:     newResult(),
		logger:     logger,
	}
	if run.graph == nil {
		run.graph = depgraph.Build(req.Tournament.MatchUps, req.Tournament.Links)
		run.dependents = directDependents(run.graph)
	}
	for _, m := range req.Tournament.MatchUps {
		run.working[m.MatchUpID] = m.Schedule
	}

	dates := run.targetDates()
	if req.ClearScheduleDates {
		run.clearDates(dates)
	}

	for _, date := range dates {
		profileDate := req.Tournament.SchedulingProfile.Date(date)
		if profileDate == nil {
			continue
		}
		run.scheduleDate(date, profileDate)
		run.result.ScheduledDates = append(run.result.ScheduledDates, date)
	}

	if !req.DryRun {
		run.apply()
	}

	logger.Debug("allocation complete",
		zap.String("strategy", req.Strategy.Name),
		zap.Int("dates", len(run.result.ScheduledDates)),
		zap.Int("iterations", run.result.Iterations),
	)
	return run.result, nil
}

type run struct {
	req        Request
	tournament *models.Tournament
	graph      depgraph.Graph
	lookup     *TimingLookup
	working    map[string]models.Schedule
	dependents map[string][]string
	result     *Result
	logger     *zap.Logger
}

// directDependents inverts the graph's one-round-away sources so placements
// can push not-before hints onto downstream matchUps.
func directDependents(graph depgraph.Graph) map[string][]string {
	dependents := make(map[string][]string)
	for matchUpID, dep := range graph {
		if dep == nil || len(dep.Sources) == 0 {
			continue
		}
		for _, sourceID := range dep.Sources[0] {
			dependents[sourceID] = append(dependents[sourceID], matchUpID)
		}
	}
	return dependents
}

func (r *run) targetDates() []string {
	profileDates := r.tournament.SchedulingProfile.Dates()
	if len(r.req.ScheduleDates) == 0 {
		return availability.SortedDates(profileDates)
	}
	requested := make(map[string]bool, len(r.req.ScheduleDates))
	for _, date := range r.req.ScheduleDates {
		requested[date] = true
	}
	var dates []string
	for _, date := range profileDates {
		if requested[date] {
			dates = append(dates, date)
		}
	}
	return availability.SortedDates(dates)
}

func (r *run) clearDates(dates []string) {
	targets := make(map[string]bool, len(dates))
	for _, date := range dates {
		targets[date] = true
	}
	for id, schedule := range r.working {
		if schedule.ScheduledDate != "" && targets[schedule.ScheduledDate] {
			r.working[id] = models.Schedule{}
		}
	}
}

func (r *run) apply() {
	for _, m := range r.tournament.MatchUps {
		if schedule, ok := r.working[m.MatchUpID]; ok {
			m.Schedule = schedule
		}
	}
}

// venueQueue is one venue's working state for a date: the matchUps the
// profile routes there, in priority order, and the candidate start times
// derived from the venue's capacity grid.
type venueQueue struct {
	venueID    string
	courtDates []availability.CourtDate
	queue      []*models.MatchUp
	times      []int
}

func (r *run) scheduleDate(date string, profileDate *models.ProfileDate) {
	windows := buildBlackouts(r.tournament.PersonRequests, date)
	participants := make(participantState)
	r.seedParticipants(date, participants)

	deferred := newBuckets()
	queues := r.buildQueues(date, profileDate)

	if r.req.Strategy.AssignCourts {
		r.rotationPass(date, queues, windows, deferred)
	} else {
		iterations := 0
		for {
			placed := r.gridPass(date, queues, windows, participants, deferred, iterations == 0)
			iterations++
			if r.req.Strategy.SinglePass || placed == 0 || iterations >= r.req.MaxIterations {
				break
			}
		}
		// iterations are only meaningful for the repeating mode
		if !r.req.Strategy.SinglePass {
			r.result.Iterations += iterations
		}
	}

	for _, vq := range queues {
		for _, m := range vq.queue {
			if r.working[m.MatchUpID].TimeAssigned() {
				continue
			}
			r.result.NoTimeMatchUpIDs[date] = append(r.result.NoTimeMatchUpIDs[date], m.MatchUpID)
		}
		if len(vq.times) > 0 {
			if r.result.ScheduleTimesRemaining[date] == nil {
				r.result.ScheduleTimesRemaining[date] = make(map[string][]string)
			}
			for _, t := range vq.times {
				r.result.ScheduleTimesRemaining[date][vq.venueID] = append(
					r.result.ScheduleTimesRemaining[date][vq.venueID], availability.MinutesToTime(t))
			}
		}
	}
	deferred.flush(date, r.result)
	r.result.IndividualParticipantProfiles[date] = participants
}

// seedParticipants accounts for matchUps already holding a time on this
// date so new placements respect their intervals.
func (r *run) seedParticipants(date string, participants participantState) {
	for _, m := range r.tournament.MatchUps {
		schedule := r.working[m.MatchUpID]
		if schedule.ScheduledDate != date || schedule.ScheduledTime == "" {
			continue
		}
		start := availability.TimeToMinutes(schedule.ScheduledTime)
		if start < 0 {
			continue
		}
		timing := r.lookup.For(m)
		participants.place(m, Interval{start, start + timing.AverageMinutes + timing.RecoveryMinutes})
	}
}

func (r *run) buildQueues(date string, profileDate *models.ProfileDate) []*venueQueue {
	var queues []*venueQueue
	for _, profileVenue := range profileDate.Venues {
		venue := r.tournament.Venue(profileVenue.VenueID)
		if venue == nil || venue.Disabled {
			continue
		}
		courtDates := availability.ResolveCourtDates([]models.Venue{*venue}, date)
		profile := availability.TimingProfile(courtDates, r.req.PeriodLength, r.req.Defaults.AverageMinutes)

		var times []int
		for _, period := range profile {
			start := availability.TimeToMinutes(period.PeriodStart)
			for n := 0; n < period.Add; n++ {
				times = append(times, start)
			}
		}

		vq := &venueQueue{venueID: profileVenue.VenueID, courtDates: courtDates, times: times}
		for _, selector := range profileVenue.Rounds {
			for _, m := range ResolveRoundSelector(r.tournament.MatchUps, selector) {
				if !m.Schedulable() {
					continue
				}
				if schedule := r.working[m.MatchUpID]; schedule.TimeAssigned() {
					continue
				}
				vq.queue = append(vq.queue, m)
			}
		}
		queues = append(queues, vq)
	}
	return queues
}

// gridPass sweeps every venue's remaining candidate times once, placing the
// first eligible matchUp at each time. Returns how many matchUps it placed.
func (r *run) gridPass(date string, queues []*venueQueue, windows blackouts, participants participantState, deferred *buckets, recordSkips bool) int {
	placed := 0
	for _, vq := range queues {
		var remaining []int
		for _, t := range vq.times {
			if len(vq.queue) == 0 {
				remaining = append(remaining, t)
				continue
			}
			if r.placeAt(date, vq, t, windows, participants, deferred) {
				placed++
			} else {
				remaining = append(remaining, t)
				if recordSkips {
					r.recordSkip(date, vq.venueID, t)
				}
			}
		}
		vq.times = remaining
	}
	return placed
}

// placeAt scans the venue queue in priority order for a matchUp eligible at
// minute t and commits the first one found.
func (r *run) placeAt(date string, vq *venueQueue, t int, windows blackouts, participants participantState, deferred *buckets) bool {
	for i := 0; i < len(vq.queue); i++ {
		m := vq.queue[i]
		if r.working[m.MatchUpID].TimeAssigned() {
			// placed through another venue's queue on this date
			vq.queue = append(vq.queue[:i], vq.queue[i+1:]...)
			i--
			continue
		}
		timing := r.lookup.For(m)
		verdict := r.eligible(date, m, t, timing, windows, participants, deferred)
		switch verdict {
		case verdictOverLimit:
			// adding later matches only raises counters, so over-limit is
			// terminal for the date
			vq.queue = append(vq.queue[:i], vq.queue[i+1:]...)
			i--
		case verdictPlace:
			vq.queue = append(vq.queue[:i], vq.queue[i+1:]...)
			r.commit(date, vq.venueID, m, t, timing, participants)
			return true
		}
	}
	return false
}

type verdict int

const (
	verdictPlace verdict = iota
	verdictDeferred
	verdictOverLimit
)

func (r *run) eligible(date string, m *models.MatchUp, t int, timing Timing, windows blackouts, participants participantState, deferred *buckets) verdict {
	candidate := Interval{t, t + timing.AverageMinutes + timing.RecoveryMinutes}
	dep := r.graph.Dependencies(m.MatchUpID)

	for prerequisiteID := range dep.MatchUpIDs {
		if !r.dependencySatisfied(prerequisiteID, date) {
			deferred.dependency[m.MatchUpID] = true
			return verdictDeferred
		}
	}

	// direct sources scheduled earlier today impose a not-before bound:
	// the feeder must finish and its advancing participant recover
	if notBefore := r.sourceNotBefore(m, date, true); notBefore > 0 {
		r.result.MatchUpNotBeforeTimes[m.MatchUpID] = availability.MinutesToTime(notBefore)
		if t < notBefore {
			deferred.recovery[m.MatchUpID] = true
			return verdictDeferred
		}
	}

	persons := m.Persons()
	if personID := windows.blocked(persons, Interval{t, t + timing.AverageMinutes}); personID != "" {
		deferred.requests[RequestConflict{PersonID: personID, MatchUpID: m.MatchUpID, ScheduleTime: availability.MinutesToTime(t)}] = true
		return verdictDeferred
	}

	if r.req.Strategy.RecoveryChecks {
		if participants.conflicts(persons, candidate) {
			deferred.recovery[m.MatchUpID] = true
			return verdictDeferred
		}
		if participants.overLimit(m, r.tournament.DailyLimits) {
			deferred.overLimit[m.MatchUpID] = true
			return verdictOverLimit
		}
	}

	return verdictPlace
}

// sourceNotBefore returns the latest finish time of the matchUp's direct
// feeders already holding a slot on the date, or zero when none do. Recovery
// time is included only for strategies that track it.
func (r *run) sourceNotBefore(m *models.MatchUp, date string, withRecovery bool) int {
	dep := r.graph.Dependencies(m.MatchUpID)
	if len(dep.Sources) == 0 {
		return 0
	}
	notBefore := 0
	for _, sourceID := range dep.Sources[0] {
		source := r.tournament.MatchUp(sourceID)
		if source == nil {
			continue
		}
		schedule := r.working[sourceID]
		if schedule.ScheduledDate != date || schedule.ScheduledTime == "" {
			continue
		}
		timing := r.lookup.For(source)
		end := availability.TimeToMinutes(schedule.ScheduledTime) + timing.AverageMinutes
		if withRecovery {
			end += timing.RecoveryMinutes
		}
		if end > notBefore {
			notBefore = end
		}
	}
	return notBefore
}

// dependencySatisfied reports whether a prerequisite is resolved for
// placements on the given date: terminally resolved, or already holding a
// schedule slot on this or an earlier date.
func (r *run) dependencySatisfied(matchUpID, date string) bool {
	m := r.tournament.MatchUp(matchUpID)
	if m == nil {
		return true
	}
	if m.MatchUpStatus.Resolved() {
		return true
	}
	schedule := r.working[matchUpID]
	if !schedule.TimeAssigned() {
		return false
	}
	return schedule.ScheduledDate <= date
}

func (r *run) commit(date, venueID string, m *models.MatchUp, t int, timing Timing, participants participantState) {
	clock := availability.MinutesToTime(t)
	schedule := r.working[m.MatchUpID]
	schedule.ScheduledDate = date
	schedule.ScheduledTime = clock
	schedule.VenueID = venueID
	r.working[m.MatchUpID] = schedule

	end := t + timing.AverageMinutes + timing.RecoveryMinutes
	participants.place(m, Interval{t, end})
	participants.notePotential(m, end)

	r.result.ScheduledMatchUpIDs[date] = append(r.result.ScheduledMatchUpIDs[date], m.MatchUpID)
	r.result.MatchUpScheduleTimes[m.MatchUpID] = clock

	for _, dependentID := range r.dependents[m.MatchUpID] {
		existing := availability.TimeToMinutes(r.result.MatchUpNotBeforeTimes[dependentID])
		if end > existing {
			r.result.MatchUpNotBeforeTimes[dependentID] = availability.MinutesToTime(end)
		}
	}
}

// rotationPass is the "pro" strategy: fill courts in round-robin order at a
// fixed cadence of averageMinutes per slot, honoring only dependency order
// and blackout windows. No recovery or daily-limit bookkeeping.
func (r *run) rotationPass(date string, queues []*venueQueue, windows blackouts, deferred *buckets) {
	average := r.req.Defaults.AverageMinutes
	for _, vq := range queues {
		courtOrder := make(map[string]int, len(vq.courtDates))
		for slot := 0; len(vq.queue) > 0; slot++ {
			progress := false
			for _, cd := range vq.courtDates {
				open := availability.TimeToMinutes(cd.StartTime)
				close := availability.TimeToMinutes(cd.EndTime)
				if open < 0 || close <= open {
					continue
				}
				t := open + slot*average
				if t+average > close {
					continue
				}
				progress = true
				if len(vq.queue) == 0 {
					break
				}
				r.rotationPlace(date, vq, cd, t, slot, courtOrder, windows, deferred)
			}
			if !progress {
				break
			}
		}
		vq.times = nil
	}
}

func (r *run) rotationPlace(date string, vq *venueQueue, cd availability.CourtDate, t, slot int, courtOrder map[string]int, windows blackouts, deferred *buckets) {
	average := r.req.Defaults.AverageMinutes
	for i := 0; i < len(vq.queue); i++ {
		m := vq.queue[i]
		if r.working[m.MatchUpID].TimeAssigned() {
			// placed through another venue's queue on this date
			vq.queue = append(vq.queue[:i], vq.queue[i+1:]...)
			i--
			continue
		}

		satisfied := true
		for prerequisiteID := range r.graph.Dependencies(m.MatchUpID).MatchUpIDs {
			if !r.dependencySatisfied(prerequisiteID, date) {
				satisfied = false
				break
			}
		}
		if !satisfied {
			deferred.dependency[m.MatchUpID] = true
			continue
		}
		// feeders holding a slot today must finish before the dependent
		// starts; court rotation skips recovery but never time order
		if notBefore := r.sourceNotBefore(m, date, false); notBefore > 0 {
			r.result.MatchUpNotBeforeTimes[m.MatchUpID] = availability.MinutesToTime(notBefore)
			if t < notBefore {
				deferred.dependency[m.MatchUpID] = true
				continue
			}
		}
		if personID := windows.blocked(m.Persons(), Interval{t, t + average}); personID != "" {
			deferred.requests[RequestConflict{PersonID: personID, MatchUpID: m.MatchUpID, ScheduleTime: availability.MinutesToTime(t)}] = true
			continue
		}

		vq.queue = append(vq.queue[:i], vq.queue[i+1:]...)
		clock := availability.MinutesToTime(t)
		courtOrder[cd.CourtID]++
		schedule := r.working[m.MatchUpID]
		schedule.ScheduledDate = date
		schedule.ScheduledTime = clock
		schedule.VenueID = vq.venueID
		schedule.CourtID = cd.CourtID
		schedule.CourtOrder = courtOrder[cd.CourtID]
		r.working[m.MatchUpID] = schedule

		r.result.ScheduledMatchUpIDs[date] = append(r.result.ScheduledMatchUpIDs[date], m.MatchUpID)
		r.result.MatchUpScheduleTimes[m.MatchUpID] = clock
		return
	}
}

func (r *run) recordSkip(date, venueID string, t int) {
	if r.result.SkippedScheduleTimes[date] == nil {
		r.result.SkippedScheduleTimes[date] = make(map[string][]string)
	}
	r.result.SkippedScheduleTimes[date][venueID] = append(
		r.result.SkippedScheduleTimes[date][venueID], availability.MinutesToTime(t))
}

// buckets collects soft-failure ids for one date, deduplicated across
// deferral retries.
type buckets struct {
	dependency map[string]bool
	recovery   map[string]bool
	overLimit  map[string]bool
	requests   map[RequestConflict]bool
}

func newBuckets() *buckets {
	return &buckets{
		dependency: make(map[string]bool),
		recovery:   make(map[string]bool),
		overLimit:  make(map[string]bool),
		requests:   make(map[RequestConflict]bool),
	}
}

func (b *buckets) flush(date string, result *Result) {
	result.DependencyDeferredMatchUpIDs[date] = sortedKeys(b.dependency)
	result.RecoveryTimeDeferredMatchUpIDs[date] = sortedKeys(b.recovery)
	result.OverLimitMatchUpIDs[date] = sortedKeys(b.overLimit)

	conflicts := make([]RequestConflict, 0, len(b.requests))
	for conflict := range b.requests {
		conflicts = append(conflicts, conflict)
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].MatchUpID != conflicts[j].MatchUpID {
			return conflicts[i].MatchUpID < conflicts[j].MatchUpID
		}
		return conflicts[i].ScheduleTime < conflicts[j].ScheduleTime
	})
	result.RequestConflicts[date] = conflicts
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
