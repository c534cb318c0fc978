package organizer

// EventKind names a progress notification.
type EventKind string

const (
	EventRunStarted            EventKind = "run_started"
	EventCollectionStarted     EventKind = "collection_started"
	EventCollectionSkipped     EventKind = "collection_skipped"
	EventBackupCreated         EventKind = "backup_created"
	EventBackupExists          EventKind = "backup_exists"
	EventImagesCopied          EventKind = "images_copied"
	EventChaptersPlanned       EventKind = "chapters_planned"
	EventChapterStarted        EventKind = "chapter_started"
	EventItemPlaced            EventKind = "item_placed"
	EventItemFailed            EventKind = "item_failed"
	EventDirectoryRemoved      EventKind = "directory_removed"
	EventDirectoryRemoveFailed EventKind = "directory_remove_failed"
	EventCollectionCompleted   EventKind = "collection_completed"
	EventRunCompleted          EventKind = "run_completed"
)

// Event is delivered synchronously to the Observer. Fields that do not apply
// to a kind are left zero.
type Event struct {
	Kind   EventKind
	DryRun bool
	// Collection is the sanitized title.
	Collection string
	Chapter    string
	// Index is 1-based: the chapter number for chapter events, the item
	// position within its chapter for item events.
	Index int
	// Total is the number of collections, chapters or chapter items the Index
	// counts against.
	Total int
	Count int
	// Path is the file or directory acted on; Dest is where it went.
	Path   string
	Dest   string
	Reason SkipReason
	Err    error
}

// Observer receives progress events.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

// MultiObserver delivers every event to each non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	var list []Observer
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return ObserverFunc(func(e Event) {
		for _, o := range list {
			o.Observe(e)
		}
	})
}
