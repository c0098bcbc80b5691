package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/engramlabs/engram/internal/logger"
	"github.com/engramlabs/engram/internal/metrics"
)

// DefaultTopK is the result count used when a search does not specify one.
const DefaultTopK = 5

// Config holds the store's tunables.
type Config struct {
	// MaxCapacity bounds the number of stored nodes. Must be positive.
	MaxCapacity int `mapstructure:"max_capacity" yaml:"max_capacity"`

	// DecayThreshold is the reinforcement floor below which an idle
	// node becomes eviction-eligible.
	DecayThreshold float64 `mapstructure:"decay_threshold" yaml:"decay_threshold"`

	// RetentionWindow is how long a node may go unaccessed before it
	// counts as stale.
	RetentionWindow time.Duration `mapstructure:"retention_window" yaml:"retention_window"`

	// ReinforcementWeight scales the reinforcement bonus in the
	// resonance score.
	ReinforcementWeight float64 `mapstructure:"reinforcement_weight" yaml:"reinforcement_weight"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		MaxCapacity:         1000,
		DecayThreshold:      0.2,
		RetentionWindow:     7 * 24 * time.Hour,
		ReinforcementWeight: 0.05,
	}
}

// Store composes the encoder, bucketed index, reinforcement controller,
// eviction pass and query cache behind four operations: Add, Search,
// Reinforce and Stats.
//
// The store+index+cache triple is one critical section: every mutating
// operation takes the write lock, so a reader can never observe a
// partially rebuilt index or a cache entry from an inconsistent state.
type Store struct {
	mu sync.RWMutex

	cfg Config

	arena arena
	index *bucketIndex
	cache queryCache

	reinforcer *Reinforcer

	counters opCounters
	seq      uint64

	now func() time.Time
	log *logger.Logger
}

type opCounters struct {
	adds           uint64
	searches       uint64
	cacheHits      uint64
	reinforcements uint64
	rebuilds       uint64
	pruned         uint64
	repairs        uint64
}

// New creates a store. A non-positive MaxCapacity is rejected; other
// zero-valued fields fall back to DefaultConfig.
func New(cfg Config) (*Store, error) {
	if cfg.MaxCapacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCapacity, cfg.MaxCapacity)
	}

	def := DefaultConfig()
	if cfg.DecayThreshold == 0 {
		cfg.DecayThreshold = def.DecayThreshold
	}
	if cfg.RetentionWindow == 0 {
		cfg.RetentionWindow = def.RetentionWindow
	}
	if cfg.ReinforcementWeight == 0 {
		cfg.ReinforcementWeight = def.ReinforcementWeight
	}

	return &Store{
		cfg:        cfg,
		index:      newBucketIndex(),
		reinforcer: NewReinforcer(cfg.DecayThreshold, cfg.RetentionWindow),
		now:        time.Now,
		log:        logger.Default().WithPrefix("memory"),
	}, nil
}

// AddOptions carries the optional parts of an Add call.
type AddOptions struct {
	// Label is a caller-supplied category tag. Defaults to DefaultLabel.
	Label string

	// Vector is a precomputed fingerprint. When nil the text is encoded.
	Vector Vector

	// Metadata is stored verbatim and never inspected.
	Metadata map[string]any
}

// Add stores a new node and returns its handle. Capacity is enforced
// before insertion: a full store runs an eviction pass first, so the
// bound holds after every completed call. Duplicate phrases become
// distinct nodes; de-duplication is the caller's responsibility.
func (s *Store) Add(text string, opts AddOptions) (NodeID, error) {
	vec := opts.Vector
	if vec == nil {
		vec = Encode(text)
	} else if !vec.Valid() {
		return 0, fmt.Errorf("%w: got %d components, want %d", ErrBadVector, len(vec), VectorDim)
	}

	label := opts.Label
	if label == "" {
		label = DefaultLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.arena.len() >= s.cfg.MaxCapacity {
		s.evict()
	}

	now := s.now()
	node := &Node{
		UID:           uuid.NewString(),
		Text:          text,
		Vector:        append(Vector(nil), vec...),
		Label:         label,
		Reinforcement: 1.0,
		CreatedAt:     now,
		LastAccessed:  now,
		Metadata:      opts.Metadata,
		seq:           s.seq,
	}
	s.seq++

	id := s.arena.insert(node)
	s.index.insert(bucketKey(node.Vector), id)
	s.counters.adds++
	s.cache.clear()

	metrics.IncCounter(metrics.MetricAddsTotal)
	metrics.SetGauge(metrics.MetricStoreSize, float64(s.arena.len()))

	return id, nil
}

// Search ranks the nodes sharing the query's bucket by resonance score
// and returns at most topK of them. Only bucket-mates are considered;
// a true near-match hashed into another bucket is missed by design.
// Returned nodes get their access bookkeeping bumped. A cache hit
// (exact same fingerprint, no intervening mutation) skips scoring and
// bookkeeping entirely.
func (s *Store) Search(query Vector, topK int) ([]SearchHit, error) {
	if !query.Valid() {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrBadVector, len(query), VectorDim)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	stop := metrics.StartTimer(metrics.MetricSearchDuration)
	defer stop.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ranked, ok := s.cache.get(query); ok {
		s.counters.cacheHits++
		metrics.IncCounter(metrics.MetricCacheHitsTotal)
		return clipHits(ranked, topK), nil
	}

	s.counters.searches++
	metrics.IncCounter(metrics.MetricSearchesTotal)

	type scored struct {
		hit SearchHit
		seq uint64
	}

	candidates := s.index.candidates(bucketKey(query))
	ranked := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		node := s.arena.get(id)
		if node == nil {
			continue
		}
		score := ResonanceScore(node.Vector, query, node.Reinforcement, s.cfg.ReinforcementWeight)
		ranked = append(ranked, scored{hit: SearchHit{ID: id, Score: score}, seq: node.seq})
	}

	// Score descending; ties go to the first-inserted node so ranking
	// stays deterministic.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].hit.Score != ranked[j].hit.Score {
			return ranked[i].hit.Score > ranked[j].hit.Score
		}
		return ranked[i].seq < ranked[j].seq
	})

	full := make([]SearchHit, len(ranked))
	for i, sc := range ranked {
		full[i] = sc.hit
	}

	hits := clipHits(full, topK)
	now := s.now()
	for _, h := range hits {
		if node := s.arena.get(h.ID); node != nil {
			node.AccessCount++
			node.LastAccessed = now
		}
	}

	s.cache.put(query, full)
	return hits, nil
}

// SearchText encodes a query phrase, searches, and attaches the
// matched phrases to the hits.
func (s *Store) SearchText(query string, topK int) ([]TextHit, error) {
	hits, err := s.Search(Encode(query), topK)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TextHit, 0, len(hits))
	for _, h := range hits {
		th := TextHit{ID: h.ID, Score: h.Score}
		if node := s.arena.get(h.ID); node != nil {
			th.Text = node.Text
		}
		out = append(out, th)
	}
	return out, nil
}

// ReinforceByID strengthens a node. The boolean is false when the id
// is unknown or stale; that is an expected caller mistake, not an
// error. A negative amount is rejected before any state changes.
func (s *Store) ReinforceByID(id NodeID, amount float64) (bool, error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.arena.get(id)
	if node == nil {
		return false, nil
	}

	_ = s.reinforcer.Strengthen(node, amount)
	s.counters.reinforcements++
	s.cache.clear()
	return true, nil
}

// GetNode returns a snapshot of a node, or false for an unknown or
// stale id.
func (s *Store) GetNode(id NodeID) (Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node := s.arena.get(id)
	if node == nil {
		return Node{}, false
	}
	return node.clone(), true
}

// Len returns the number of stored nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.arena.len()
}

// clipHits copies at most topK hits so callers never alias the cache.
func clipHits(ranked []SearchHit, topK int) []SearchHit {
	if topK > len(ranked) {
		topK = len(ranked)
	}
	out := make([]SearchHit, topK)
	copy(out, ranked[:topK])
	return out
}
