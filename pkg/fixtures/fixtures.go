// Package fixtures loads static YAML data sets and serves them through the same
// collaborator interfaces the Postgres repositories implement.
package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/shiftwise-api/internal/models"
	appErrors "github.com/noah-isme/shiftwise-api/pkg/errors"
)

// Document is the on-disk shape of a fixture file. Any section may be omitted.
type Document struct {
	Employees     []models.Employee     `yaml:"employees"`
	Shifts        []models.Shift        `yaml:"shifts"`
	ClockEvents   []models.ClockEvent   `yaml:"clockEvents"`
	LeaveRequests []models.LeaveRequest `yaml:"leaveRequests"`
}

// Parse decodes one YAML document. Unknown keys are rejected.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	for i := range doc.LeaveRequests {
		doc.LeaveRequests[i].Status = models.LeaveStatus(strings.ToUpper(string(doc.LeaveRequests[i].Status)))
	}
	return doc, nil
}

// LoadFile reads and parses a single fixture file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read fixture %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return doc, nil
}

// LoadDir merges every *.yaml and *.yml file in dir, in lexical order.
func LoadDir(dir string) (Document, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return Document{}, err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return Document{}, fmt.Errorf("no fixture files in %s", dir)
	}
	sort.Strings(paths)

	var merged Document
	for _, path := range paths {
		doc, err := LoadFile(path)
		if err != nil {
			return Document{}, err
		}
		merged.Employees = append(merged.Employees, doc.Employees...)
		merged.Shifts = append(merged.Shifts, doc.Shifts...)
		merged.ClockEvents = append(merged.ClockEvents, doc.ClockEvents...)
		merged.LeaveRequests = append(merged.LeaveRequests, doc.LeaveRequests...)
	}
	return merged, nil
}

// Load reads a directory or a single file.
func Load(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("stat fixtures: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// Source is an in-memory employee directory, leave source and clock event store.
// Recorded clock events live only as long as the process.
type Source struct {
	mu        sync.RWMutex
	employees []models.Employee
	byID      map[string]models.Employee
	events    []models.ClockEvent
	leave     []models.LeaveRequest
}

// NewSource indexes doc. Employees are listed by name, like the SQL directory.
func NewSource(doc Document) (*Source, error) {
	s := &Source{
		byID:   make(map[string]models.Employee, len(doc.Employees)),
		events: append([]models.ClockEvent(nil), doc.ClockEvents...),
		leave:  append([]models.LeaveRequest(nil), doc.LeaveRequests...),
	}
	for _, emp := range doc.Employees {
		if emp.ID == "" {
			return nil, fmt.Errorf("employee %q has no id", emp.Name)
		}
		if _, dup := s.byID[emp.ID]; dup {
			return nil, fmt.Errorf("duplicate employee id %s", emp.ID)
		}
		s.byID[emp.ID] = emp
		s.employees = append(s.employees, emp)
	}
	sort.SliceStable(s.employees, func(i, j int) bool {
		if s.employees[i].Name != s.employees[j].Name {
			return s.employees[i].Name < s.employees[j].Name
		}
		return s.employees[i].ID < s.employees[j].ID
	})
	for i := range s.events {
		if s.events[i].ID == "" {
			s.events[i].ID = fmt.Sprintf("fixture-%d", i+1)
		}
	}
	return s, nil
}

func (s *Source) FindByID(_ context.Context, id string) (*models.Employee, error) {
	emp, ok := s.byID[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
	}
	return &emp, nil
}

func (s *Source) List(context.Context) ([]models.Employee, error) {
	return append([]models.Employee(nil), s.employees...), nil
}

func (s *Source) ApprovedOn(_ context.Context, date models.CalendarDate) ([]models.LeaveRequest, error) {
	out := make([]models.LeaveRequest, 0)
	for _, req := range s.leave {
		if req.Status == models.LeaveStatusApproved && req.Covers(date) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *Source) CountPending(context.Context) (int, error) {
	count := 0
	for _, req := range s.leave {
		if req.Status == models.LeaveStatusPending {
			count++
		}
	}
	return count, nil
}

// ListByDate returns events of date in recording order.
func (s *Source) ListByDate(_ context.Context, date models.CalendarDate) ([]models.ClockEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClockEvent, 0)
	for _, ev := range s.events {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Source) Record(_ context.Context, event models.ClockEvent) (models.ClockEvent, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return event, nil
}
