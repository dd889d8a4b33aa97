package models

import (
	"errors"
	"slices"
	"time"
)

type ListName string

const (
	WatchList ListName = "watchlist"
	Watching  ListName = "watching"
	Completed ListName = "completed"
	Favorites ListName = "favorites"
)

var (
	ErrUnknownList    = errors.New("unknown list")
	ErrAlreadyPresent = errors.New("content already in list")
	ErrNotPresent     = errors.New("content not in list")
)

// exclusiveLists hold the viewing status of an item: an item sits in at most
// one of them. Favorites is orthogonal.
var exclusiveLists = []ListName{WatchList, Watching, Completed}

func ParseListName(s string) (ListName, error) {
	switch name := ListName(s); name {
	case WatchList, Watching, Completed, Favorites:
		return name, nil
	}
	return "", ErrUnknownList
}

func (n ListName) Exclusive() bool {
	return slices.Contains(exclusiveLists, n)
}

type ListEntry struct {
	ContentID string    `json:"contentId"`
	DateAdded time.Time `json:"dateAdded"`
}

type Lists struct {
	WatchList []ListEntry `json:"watchList"`
	Watching  []ListEntry `json:"watching"`
	Completed []ListEntry `json:"completed"`
	Favorites []ListEntry `json:"favorites"`
}

func (l *Lists) ref(name ListName) *[]ListEntry {
	switch name {
	case WatchList:
		return &l.WatchList
	case Watching:
		return &l.Watching
	case Completed:
		return &l.Completed
	case Favorites:
		return &l.Favorites
	}
	return nil
}

// Get returns the entries of the named list in insertion order.
func (l *Lists) Get(name ListName) []ListEntry {
	if ref := l.ref(name); ref != nil {
		return *ref
	}
	return nil
}

func (l *Lists) Contains(name ListName, contentID string) bool {
	return indexOf(l.Get(name), contentID) >= 0
}

// Add appends contentID to the named list. Adding to one of the viewing
// status lists removes the item from the other two.
func (l *Lists) Add(name ListName, contentID string, now time.Time) error {
	ref := l.ref(name)
	if ref == nil {
		return ErrUnknownList
	}
	if indexOf(*ref, contentID) >= 0 {
		return ErrAlreadyPresent
	}
	*ref = append(*ref, ListEntry{ContentID: contentID, DateAdded: now})
	if !name.Exclusive() {
		return nil
	}
	for _, other := range exclusiveLists {
		if other == name {
			continue
		}
		otherRef := l.ref(other)
		if i := indexOf(*otherRef, contentID); i >= 0 {
			*otherRef = slices.Delete(*otherRef, i, i+1)
		}
	}
	return nil
}

func (l *Lists) Remove(name ListName, contentID string) error {
	ref := l.ref(name)
	if ref == nil {
		return ErrUnknownList
	}
	i := indexOf(*ref, contentID)
	if i < 0 {
		return ErrNotPresent
	}
	*ref = slices.Delete(*ref, i, i+1)
	return nil
}

// Normalize replaces nil lists with empty ones so they serialize as [].
func (l *Lists) Normalize() {
	for _, name := range []ListName{WatchList, Watching, Completed, Favorites} {
		if ref := l.ref(name); *ref == nil {
			*ref = []ListEntry{}
		}
	}
}

func indexOf(entries []ListEntry, contentID string) int {
	return slices.IndexFunc(entries, func(e ListEntry) bool { return e.ContentID == contentID })
}
