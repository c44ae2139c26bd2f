package client

import (
	"context"
	"errors"
	"sync"
)

// Session wires one of each component around a single user. It replaces
// process-wide state: callers create as many sessions as they need.
type Session struct {
	Profile   *ProfileStore
	Interest  *InterestSelector
	Clock     *ReferenceClock
	History   *HistorySynchronizer
	Articles  *ArticleRetriever
	Summaries *SummaryRequester
}

// NewSession builds a session for profile on top of c.
func NewSession(c *Client, profile UserProfile) *Session {
	return &Session{
		Profile:   NewProfileStore(c, profile),
		Interest:  NewInterestSelector(),
		Clock:     NewReferenceClock(c),
		History:   NewHistorySynchronizer(c),
		Articles:  NewArticleRetriever(c),
		Summaries: NewSummaryRequester(c),
	}
}

// Start fetches the reference date and loads (or creates) the profile. Both
// run even if one fails; the errors are joined.
func (s *Session) Start(ctx context.Context) error {
	return errors.Join(s.Clock.Fetch(ctx), s.Profile.Load(ctx))
}

// TopicVisit is the outcome of VisitTopic. History and Articles are usable
// only when their error is nil.
type TopicVisit struct {
	Interest    Interest
	History     HistoryResult
	Articles    []Article
	HistoryErr  error
	ArticlesErr error
}

// Err joins the visit's errors.
func (v TopicVisit) Err() error { return errors.Join(v.HistoryErr, v.ArticlesErr) }

// VisitTopic activates (topic, level), then reconciles history and fetches
// articles concurrently. Neither call waits for the other.
func (s *Session) VisitTopic(ctx context.Context, topic string, level Level) TopicVisit {
	s.Interest.SetActive(topic, level)
	v := TopicVisit{Interest: s.Interest.Active()}
	date, _ := s.Clock.Now()
	userID := s.Profile.Snapshot().ID

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v.History, v.HistoryErr = s.History.Reconcile(ctx, userID, v.Interest.Topic, v.Interest.Level, date)
	}()
	go func() {
		defer wg.Done()
		v.Articles, v.ArticlesErr = s.Articles.FetchByTopic(ctx, v.Interest, date)
	}()
	wg.Wait()
	return v
}

// Summarize combines the articles' summaries and summarizes them for the
// active topic.
func (s *Session) Summarize(ctx context.Context, articles []Article) (TopicSummary, error) {
	return s.Summaries.SummarizeAggregate(ctx, s.Interest.Active().Topic, CombineSummaries(articles))
}

// Close waits for pending profile and date writes.
func (s *Session) Close(ctx context.Context) error {
	return errors.Join(s.Profile.Flush(ctx), s.Clock.Flush(ctx))
}
