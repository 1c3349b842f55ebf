package component

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
)

type health struct{ HP float64 }
type mana struct{ MP float64 }
type footsteps struct{}
type music struct{}
type ambience struct{}
type undeclared struct{}
type propertiesOnly struct{ X float64 }

// RegistrySuite covers the registry contract against a fresh store per test.
type RegistrySuite struct {
	suite.Suite
	store    *metadata.Store
	registry *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.store = metadata.NewStore()
	s.registry = NewRegistry(s.store)
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) declareGameplay() {
	metadata.Describe[health](s.store).
		Component(metadata.ComponentOptions{DisplayName: "Health", Category: "Gameplay", Order: metadata.Int(2)}).
		Property("hp", metadata.PropertyDescriptor{
			Kind:     metadata.KindRange,
			Min:      metadata.Float(0),
			Max:      metadata.Float(100),
			Category: "Stats",
			Order:    metadata.Int(1),
		})
	metadata.DeclareComponent[mana](s.store, metadata.ComponentOptions{
		DisplayName: "Mana", Category: "Gameplay", Order: metadata.Int(1),
	})
}

func (s *RegistrySuite) TestRegisterWithoutMetadataIsNoop() {
	metadata.DeclareProperty[propertiesOnly](s.store, "X", metadata.PropertyDescriptor{Kind: metadata.KindNumber})

	s.False(RegisterType[undeclared](s.registry))
	s.False(RegisterType[propertiesOnly](s.registry))
	s.False(s.registry.Has(metadata.TypeOf[undeclared]()))
	s.False(s.registry.Has(metadata.TypeOf[propertiesOnly]()))
	s.Empty(s.registry.GetAll())
}

func (s *RegistrySuite) TestRegisterNilType() {
	s.False(s.registry.Register(nil))
	s.False(s.registry.Has(nil))
}

func (s *RegistrySuite) TestRegisterSnapshotsProperties() {
	s.declareGameplay()
	metadata.DeclareProperty[health](s.store, "regen", metadata.PropertyDescriptor{Kind: metadata.KindNumber})

	s.True(RegisterType[health](s.registry))

	reg, ok := s.registry.Get(metadata.TypeOf[health]())
	s.Require().True(ok)
	s.Equal("Health", reg.Metadata.DisplayName)
	s.Equal("health", reg.Name)
	s.Equal(metadata.TypeOf[health](), reg.Type)
	s.Equal([]string{"hp", "regen"}, reg.Properties.Names())

	hp, ok := reg.Properties.Get("hp")
	s.Require().True(ok)
	s.Equal(metadata.KindRange, hp.Kind)
	s.Equal(100.0, *hp.Max)

	// later declarations only show up after registering again
	metadata.DeclareProperty[health](s.store, "armor", metadata.PropertyDescriptor{Kind: metadata.KindNumber})
	reg, _ = s.registry.Get(metadata.TypeOf[health]())
	s.Equal(2, reg.Properties.Len())

	s.True(RegisterType[health](s.registry))
	reg, _ = s.registry.Get(metadata.TypeOf[health]())
	s.Equal(3, reg.Properties.Len())
}

func (s *RegistrySuite) TestPointerTypeResolvesToSameRegistration() {
	s.declareGameplay()
	s.True(s.registry.Register(reflect.TypeOf(&health{})))

	s.True(s.registry.Has(reflect.TypeOf(health{})))
	reg, ok := s.registry.Get(reflect.TypeOf(&health{}))
	s.Require().True(ok)
	s.Equal(reflect.TypeOf(health{}), reg.Type)
}

func (s *RegistrySuite) TestGetAllKeepsRegistrationOrder() {
	s.declareGameplay()

	// declared health then mana, registered the other way round
	RegisterType[mana](s.registry)
	RegisterType[health](s.registry)
	RegisterType[mana](s.registry)

	all := s.registry.GetAll()
	s.Require().Len(all, 2)
	s.Equal("Mana", all[0].Metadata.DisplayName)
	s.Equal("Health", all[1].Metadata.DisplayName)
}

func (s *RegistrySuite) TestReRegisterReplaces() {
	s.declareGameplay()
	RegisterType[health](s.registry)

	metadata.DeclareComponent[health](s.store, metadata.ComponentOptions{DisplayName: "Vitality"})
	RegisterType[health](s.registry)

	reg, _ := s.registry.Get(metadata.TypeOf[health]())
	s.Equal("Vitality", reg.Metadata.DisplayName)
	s.Equal(1, s.registry.Len())
}

func (s *RegistrySuite) TestGetByCategorySortedByOrder() {
	s.declareGameplay()
	RegisterType[health](s.registry)
	RegisterType[mana](s.registry)

	got := s.registry.GetByCategory("Gameplay")
	s.Require().Len(got, 2)
	s.Equal("Mana", got[0].Metadata.DisplayName)
	s.Equal("Health", got[1].Metadata.DisplayName)

	s.Empty(s.registry.GetByCategory("Physics"))
	s.Empty(s.registry.GetByCategory(""))
}

func (s *RegistrySuite) TestGetByCategoryTiesKeepRegistrationOrder() {
	for _, typ := range []reflect.Type{metadata.TypeOf[music](), metadata.TypeOf[footsteps](), metadata.TypeOf[ambience]()} {
		metadata.DeclareComponentType(s.store, typ, metadata.ComponentOptions{DisplayName: typ.Name(), Category: "Audio"})
		s.registry.Register(typ)
	}

	got := s.registry.GetByCategory("Audio")
	s.Require().Len(got, 3)
	s.Equal("music", got[0].Metadata.DisplayName)
	s.Equal("footsteps", got[1].Metadata.DisplayName)
	s.Equal("ambience", got[2].Metadata.DisplayName)
}

func (s *RegistrySuite) TestGetAddable() {
	metadata.DeclareComponent[health](s.store, metadata.ComponentOptions{DisplayName: "Health"})
	metadata.DeclareComponent[mana](s.store, metadata.ComponentOptions{DisplayName: "Mana", Addable: metadata.Bool(false)})
	metadata.DeclareComponent[music](s.store, metadata.ComponentOptions{DisplayName: "Music", Addable: metadata.Bool(true)})
	RegisterType[health](s.registry)
	RegisterType[mana](s.registry)
	RegisterType[music](s.registry)

	var names []string
	for _, reg := range s.registry.GetAddable() {
		names = append(names, reg.Metadata.DisplayName)
	}
	s.Equal([]string{"Health", "Music"}, names)
}

func (s *RegistrySuite) TestStatisticsExcludeUncategorized() {
	metadata.DeclareComponent[music](s.store, metadata.ComponentOptions{DisplayName: "Music", Category: "Audio"})
	metadata.DeclareComponent[footsteps](s.store, metadata.ComponentOptions{DisplayName: "Footsteps", Category: "Audio"})
	metadata.DeclareComponent[ambience](s.store, metadata.ComponentOptions{DisplayName: "Ambience", Addable: metadata.Bool(false)})
	RegisterType[music](s.registry)
	RegisterType[footsteps](s.registry)
	RegisterType[ambience](s.registry)

	stats := s.registry.GetStatistics()
	s.Equal(3, stats.TotalComponents)
	s.Equal(2, stats.AddableComponents)
	s.Equal(map[string]int{"Audio": 2}, stats.CategorizedComponents)

	groups := GetComponentsByCategory(s.registry)
	s.Len(groups["Audio"], 2)
	s.Require().Len(groups[metadata.DefaultComponentCategory], 1)
	s.Equal("Ambience", groups[metadata.DefaultComponentCategory][0].Metadata.DisplayName)
}

func (s *RegistrySuite) TestClearAllThenClear() {
	s.declareGameplay()
	RegisterType[health](s.registry)
	RegisterType[mana](s.registry)

	s.store.ClearAll()
	s.registry.Clear()

	s.Empty(s.store.GetAllRegisteredComponentTypes())
	s.Empty(s.registry.GetAll())
	s.Equal(0, s.registry.GetStatistics().TotalComponents)
}

func (s *RegistrySuite) TestClearKeepsDeclarations() {
	s.declareGameplay()
	RegisterType[health](s.registry)
	s.registry.Clear()

	s.False(s.registry.Has(metadata.TypeOf[health]()))
	s.True(s.store.HasComponentMetadata(metadata.TypeOf[health]()))
	s.True(RegisterType[health](s.registry))
}

func (s *RegistrySuite) TestReturnedRegistrationIsACopy() {
	s.declareGameplay()
	RegisterType[health](s.registry)

	reg, _ := s.registry.Get(metadata.TypeOf[health]())
	*reg.Metadata.Order = 50
	reg.Metadata.DisplayName = "mutated"

	again, _ := s.registry.Get(metadata.TypeOf[health]())
	s.Equal("Health", again.Metadata.DisplayName)
	s.Equal(2, *again.Metadata.Order)
}

func TestNewRegistry_NilStore(t *testing.T) {
	r := NewRegistry(nil)
	require.NotNil(t, r.Store())
	assert.False(t, RegisterType[health](r))
}

func TestRegistry_LogsDisplayName(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := metadata.NewStore()
	metadata.DeclareComponent[health](store, metadata.ComponentOptions{DisplayName: "Hit Points"})
	r := NewRegistry(store, WithLogger(logger))

	RegisterType[health](r)
	RegisterType[undeclared](r)

	out := buf.String()
	assert.Contains(t, out, "Registered component")
	assert.Contains(t, out, "Hit Points")
	assert.Contains(t, out, "Skipped component without metadata")
}

func TestRegistry_Metrics(t *testing.T) {
	m := metric.NewMetrics()
	store := metadata.NewStore()
	metadata.DeclareComponent[music](store, metadata.ComponentOptions{DisplayName: "Music", Category: "Audio"})
	metadata.DeclareComponent[health](store, metadata.ComponentOptions{DisplayName: "Health"})
	r := NewRegistry(store, WithMetrics(m))

	RegisterType[music](r)
	RegisterType[health](r)
	RegisterType[undeclared](r)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues("Audio")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations.WithLabelValues(metadata.DefaultComponentCategory)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedRegistrations))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RegisteredComponents))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DeclaredTypes))

	r.Clear()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RegisteredComponents))
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []RegistrationEvent
	err    error
}

func (p *recordingPublisher) PublishRegistration(_ context.Context, event RegistrationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestRegistry_PublishesEvents(t *testing.T) {
	pub := &recordingPublisher{}
	store := metadata.NewStore()
	metadata.Describe[health](store).
		Component(metadata.ComponentOptions{DisplayName: "Health", Category: "Gameplay"}).
		Property("hp", metadata.PropertyDescriptor{Kind: metadata.KindNumber})
	r := NewRegistry(store, WithPublisher(pub))

	RegisterType[health](r)
	RegisterType[undeclared](r)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, "health", ev.Type)
	assert.Equal(t, "Health", ev.DisplayName)
	assert.Equal(t, "Gameplay", ev.Category)
	assert.Equal(t, 1, ev.Properties)
	assert.True(t, ev.Addable)
	assert.NotEmpty(t, ev.Timestamp)
}

func TestRegistry_PublishFailureDoesNotAffectResult(t *testing.T) {
	pub := &recordingPublisher{err: assert.AnError}
	store := metadata.NewStore()
	metadata.DeclareComponent[health](store, metadata.ComponentOptions{DisplayName: "Health"})
	r := NewRegistry(store, WithPublisher(pub))

	assert.True(t, RegisterType[health](r))
	assert.True(t, r.Has(metadata.TypeOf[health]()))
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	store := metadata.NewStore()
	metadata.DeclareComponent[health](store, metadata.ComponentOptions{DisplayName: "Health", Category: "Gameplay"})
	metadata.DeclareComponent[mana](store, metadata.ComponentOptions{DisplayName: "Mana", Category: "Gameplay"})
	r := NewRegistry(store, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			RegisterType[health](r)
			RegisterType[mana](r)
		}()
		go func() {
			defer wg.Done()
			_ = r.GetByCategory("Gameplay")
			_ = r.GetStatistics()
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, r.Len())
}
