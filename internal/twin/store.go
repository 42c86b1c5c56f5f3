package twin

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Object is a JSON object as served by the twin.
type Object = map[string]any

// Fixture is the seed state of a twin.
type Fixture struct {
	// Tokens lists the accepted access tokens. Empty accepts any token.
	Tokens   []string     `yaml:"tokens" json:"tokens"`
	Facebook FacebookData `yaml:"facebook" json:"facebook"`
	LinkedIn LinkedInData `yaml:"linkedin" json:"linkedin"`
}

// FacebookData is the Graph side of a fixture.
type FacebookData struct {
	// Me is the object ID "me" resolves to.
	Me          string                         `yaml:"me" json:"me"`
	Objects     map[string]Object              `yaml:"objects" json:"objects"`
	Connections map[string]map[string][]Object `yaml:"connections" json:"connections"`
}

// LinkedInData is the LinkedIn side of a fixture.
type LinkedInData struct {
	// Me is the profile ID "~" resolves to.
	Me        string              `yaml:"me" json:"me"`
	People    map[string]Object   `yaml:"people" json:"people"`
	Companies map[string]Object   `yaml:"companies" json:"companies"`
	Products  map[string][]Object `yaml:"products" json:"products"`
}

// LoadFixture decodes a YAML (or JSON) fixture.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, errors.Wrap(err, "twin: decode fixture")
	}
	return &fx, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "twin: open fixture")
	}
	defer f.Close()
	return LoadFixture(f)
}

// DefaultFixture returns a fresh copy of the built-in fixture.
func DefaultFixture() *Fixture {
	fx, err := LoadFixture(bytes.NewReader(defaultFixture))
	if err != nil {
		panic(err)
	}
	return fx
}

// Store holds twin state. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	seed   *Fixture
	fx     *Fixture
	nextID int
}

// NewStore creates a store seeded with fx.
func NewStore(fx *Fixture) *Store {
	s := &Store{seed: fx}
	s.Reset()
	return s
}

// Reset restores the seed state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fx = cloneFixture(s.seed)
	s.nextID = 1
}

// Load replaces both seed and current state.
func (s *Store) Load(fx *Fixture) {
	s.mu.Lock()
	s.seed = fx
	s.mu.Unlock()
	s.Reset()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() *Fixture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFixture(s.fx)
}

// ValidToken reports whether token may call the twin.
func (s *Store) ValidToken(token string) bool {
	if token == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.fx.Tokens) == 0 {
		return true
	}
	for _, t := range s.fx.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// GraphObject returns a Graph object, resolving "me".
func (s *Store) GraphObject(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "me" {
		id = s.fx.Facebook.Me
	}
	obj, ok := s.fx.Facebook.Objects[id]
	return obj, ok
}

// GraphConnection returns the elements of a Graph connection, resolving "me".
// ok is false when the object does not exist.
func (s *Store) GraphConnection(id, connection string) (list []Object, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "me" {
		id = s.fx.Facebook.Me
	}
	if _, exists := s.fx.Facebook.Objects[id]; !exists {
		return nil, false
	}
	return s.fx.Facebook.Connections[id][connection], true
}

// Publish appends a new object to a connection and returns its ID.
func (s *Store) Publish(id, connection string, fields Object) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "me" {
		id = s.fx.Facebook.Me
	}
	if _, exists := s.fx.Facebook.Objects[id]; !exists {
		return "", false
	}
	newID := id + "_" + strconv.Itoa(s.nextID)
	s.nextID++

	obj := Object{"id": newID}
	for k, v := range fields {
		obj[k] = v
	}
	if s.fx.Facebook.Connections == nil {
		s.fx.Facebook.Connections = map[string]map[string][]Object{}
	}
	if s.fx.Facebook.Connections[id] == nil {
		s.fx.Facebook.Connections[id] = map[string][]Object{}
	}
	// newest first, as Graph feeds are ordered
	conn := s.fx.Facebook.Connections[id][connection]
	s.fx.Facebook.Connections[id][connection] = append([]Object{obj}, conn...)
	s.fx.Facebook.Objects[newID] = obj
	return newID, true
}

// DeleteGraphObject removes an object and drops it from every connection.
func (s *Store) DeleteGraphObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.fx.Facebook.Objects[id]; !exists {
		return false
	}
	delete(s.fx.Facebook.Objects, id)
	for _, conns := range s.fx.Facebook.Connections {
		for name, list := range conns {
			kept := list[:0:0]
			for _, o := range list {
				if o["id"] != id {
					kept = append(kept, o)
				}
			}
			conns[name] = kept
		}
	}
	return true
}

// Person returns a LinkedIn profile, resolving "~".
func (s *Store) Person(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == "~" {
		id = s.fx.LinkedIn.Me
	}
	p, ok := s.fx.LinkedIn.People[id]
	return p, ok
}

// Company returns a company by ID.
func (s *Store) Company(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.fx.LinkedIn.Companies[id]
	return c, ok
}

// CompanyByUniversalName returns a company and its ID by universal name.
func (s *Store) CompanyByUniversalName(name string) (string, Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, c := range s.fx.LinkedIn.Companies {
		if c["universalName"] == name {
			return id, c, true
		}
	}
	return "", nil, false
}

// Products returns the products of a company.
func (s *Store) Products(companyID string) ([]Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.fx.LinkedIn.Companies[companyID]; !ok {
		return nil, false
	}
	return s.fx.LinkedIn.Products[companyID], true
}

// cloneFixture deep-copies fx through YAML so that mutations never reach the seed.
func cloneFixture(fx *Fixture) *Fixture {
	if fx == nil {
		return &Fixture{}
	}
	b, err := yaml.Marshal(fx)
	if err != nil {
		panic(err)
	}
	out, err := LoadFixture(bytes.NewReader(b))
	if err != nil {
		panic(err)
	}
	if out.Facebook.Objects == nil {
		out.Facebook.Objects = map[string]Object{}
	}
	return out
}
