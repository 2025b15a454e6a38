package dashboard

import (
	"context"
	"encoding/json"
	"log"

	things "github.com/thingsapi/things-go"
	"github.com/thingsapi/things-go/internal/watch"
)

// Monitor bridges database change events to dashboard broadcasts. On every
// change it recomputes the statistics snapshot from a fresh read of the
// database and pushes it to all connected clients.
type Monitor struct {
	server *Server
	db     *things.DB
	logger *log.Logger
}

// NewMonitor creates a monitor publishing to server from db.
func NewMonitor(server *Server, db *things.DB, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Monitor{server: server, db: db, logger: logger}
}

// Run consumes watcher events until the context is canceled or the watcher
// channels close. An initial snapshot is broadcast before the first event.
func (m *Monitor) Run(ctx context.Context, watcher *watch.Watcher) error {
	if err := m.Refresh(); err != nil {
		return err
	}

	events := watcher.Events()
	errs := watcher.Errors()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case change, ok := <-events:
			if !ok {
				return nil
			}
			m.OnChange(change)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			m.logger.Printf("watch error: %v", err)
		}
	}
}

// OnChange broadcasts the change event and a fresh snapshot.
func (m *Monitor) OnChange(change watch.Change) {
	m.logger.Printf("database changed: %s", change.Path)

	data, err := json.Marshal(ChangeData{Path: change.Path})
	if err != nil {
		m.logger.Printf("failed to marshal change data: %v", err)
		return
	}
	m.server.Broadcast(Message{
		Type:      MessageTypeChange,
		Timestamp: change.At,
		Data:      data,
	})

	if err := m.Refresh(); err != nil {
		m.logger.Printf("failed to refresh snapshot: %v", err)
	}
}

// Refresh recomputes and broadcasts the statistics snapshot.
func (m *Monitor) Refresh() error {
	snapshot, err := m.snapshot()
	if err != nil {
		return err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.server.Broadcast(Message{Type: MessageTypeSnapshot, Data: data})
	return nil
}

// snapshot counts tasks per app view. Counts run server-side so connected
// clients never pull full task lists over the socket.
func (m *Monitor) snapshot() (*Snapshot, error) {
	s := &Snapshot{ByStatus: make(map[string]int)}

	visible := things.TaskQuery{
		Trashed:        things.Bool(false),
		ContextTrashed: things.Bool(false),
	}

	total, err := m.db.CountTasks(visible)
	if err != nil {
		return nil, err
	}
	s.Total = total

	for _, status := range []string{"incomplete", "canceled", "completed"} {
		q := visible
		q.Status = status
		count, err := m.db.CountTasks(q)
		if err != nil {
			return nil, err
		}
		s.ByStatus[status] = count
	}

	inbox := visible
	inbox.Type = "to-do"
	inbox.Status = "incomplete"
	inbox.Start = "Inbox"
	if s.Inbox, err = m.db.CountTasks(inbox); err != nil {
		return nil, err
	}

	today := visible
	today.Status = "incomplete"
	today.StartDate = things.DateExists()
	if s.Today, err = m.db.CountTasks(today); err != nil {
		return nil, err
	}

	projects := visible
	projects.Type = "project"
	projects.Status = "incomplete"
	if s.Projects, err = m.db.CountTasks(projects); err != nil {
		return nil, err
	}

	if s.Trashed, err = m.db.CountTasks(things.TaskQuery{Trashed: things.Bool(true)}); err != nil {
		return nil, err
	}

	return s, nil
}
