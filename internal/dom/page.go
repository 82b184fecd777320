// Package dom wraps a parsed HTML document and publishes batches of newly
// inserted nodes to subscribers, the server-side stand-in for a subtree
// mutation observer.
package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Listener receives the nodes added by one mutation.
type Listener func(added *goquery.Selection)

// Page is safe for concurrent use. Mutations and the listeners they
// trigger run one at a time; a listener may read and edit the document and
// stop subscriptions but must not call Insert or HTML itself.
type Page struct {
	// docMu serializes access to doc; mu guards the listener set.
	docMu sync.Mutex
	mu    sync.Mutex

	url       string
	doc       *goquery.Document
	nextID    int
	listeners map[int]Listener
	order     []int
}

func NewPage(rawURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return NewPageFromDocument(rawURL, doc), nil
}

func NewPageFromDocument(rawURL string, doc *goquery.Document) *Page {
	return &Page{
		url:       strings.TrimSpace(rawURL),
		doc:       doc,
		listeners: map[int]Listener{},
	}
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Document() *goquery.Document {
	return p.doc
}

func (p *Page) Root() *goquery.Selection {
	return p.doc.Selection
}

// Subscribe registers fn for every later mutation until the returned
// subscription is stopped.
func (p *Page) Subscribe(fn Listener) *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.order = append(p.order, id)
	return &Subscription{page: p, id: id}
}

// Insert appends markup to the first element matching parentSelector and
// notifies subscribers with the inserted elements. Listeners run on the
// caller's goroutine after the mutation is applied, before any other
// mutation can start.
func (p *Page) Insert(parentSelector string, markup string) (*goquery.Selection, error) {
	p.docMu.Lock()
	defer p.docMu.Unlock()

	parent := p.doc.Find(parentSelector).First()
	if parent.Length() == 0 {
		return nil, fmt.Errorf("insert: no element matches %q", parentSelector)
	}

	before := parent.Children().Length()
	parent.AppendHtml(markup)
	added := parent.Children().Slice(before, goquery.ToEnd)

	p.mu.Lock()
	listeners := p.snapshotLocked()
	p.mu.Unlock()

	if added.Length() == 0 {
		return added, nil
	}
	for _, listener := range listeners {
		listener(added)
	}
	return added, nil
}

func (p *Page) HTML() (string, error) {
	p.docMu.Lock()
	defer p.docMu.Unlock()
	return goquery.OuterHtml(p.doc.Selection)
}

func (p *Page) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

func (p *Page) snapshotLocked() []Listener {
	listeners := make([]Listener, 0, len(p.order))
	for _, id := range p.order {
		listeners = append(listeners, p.listeners[id])
	}
	return listeners
}

func (p *Page) unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.listeners[id]; !ok {
		return
	}
	delete(p.listeners, id)
	for i, candidate := range p.order {
		if candidate == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

type Subscription struct {
	page *Page
	id   int
	once sync.Once
}

// Stop detaches the listener. Calling it more than once is safe.
func (s *Subscription) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.page.unsubscribe(s.id)
	})
}
