package remote

import (
	"strings"

	"github.com/junopark00/tk-clarisse/internal/host"
)

// menu proxies one node of the host menu tree. Nodes are addressed by their
// '>'-joined label path from the menu bar; the bridge resolves paths on its
// side. Command callbacks stay in this process: the bridge sends a
// menu_invoke event carrying the path and the proxy dispatches it.
type menu struct {
	c    *Client
	path string
}

// handleMenuInvoke is wired to the bridge's menu_invoke event by Dial.
func (c *Client) handleMenuInvoke(path string) {
	c.mu.Lock()
	fn := c.menuFns[path]
	c.mu.Unlock()
	if fn == nil {
		return
	}
	select {
	case c.deferred <- fn:
	default:
	}
}

func (m *menu) child(label string) string {
	if m.path == "" {
		return label
	}
	return m.path + ">" + label
}

// Label returns the last component of the node path.
func (m *menu) Label() string {
	if i := strings.LastIndex(m.path, ">"); i >= 0 {
		return m.path[i+1:]
	}
	return m.path
}

// AddSubMenu appends a nested submenu and returns its proxy.
func (m *menu) AddSubMenu(label string) host.Menu {
	p := m.child(label)
	_ = m.c.call("menu.add_submenu", nil, p)
	return &menu{c: m.c, path: p}
}

// AddCommand appends a leaf entry. fn runs in this process when the host
// item is clicked.
func (m *menu) AddCommand(label string, fn func()) {
	p := m.child(label)
	m.c.mu.Lock()
	m.c.menuFns[p] = fn
	m.c.mu.Unlock()
	_ = m.c.call("menu.add_command", nil, p)
}

// AddSeparator appends a divider.
func (m *menu) AddSeparator() {
	_ = m.c.call("menu.add_separator", nil, m.path)
}

// Item returns the direct child submenu with the given label, or nil.
func (m *menu) Item(label string) host.Menu {
	p := m.child(label)
	var exists bool
	if err := m.c.call("menu.has_item", &exists, p); err != nil || !exists {
		return nil
	}
	return &menu{c: m.c, path: p}
}

// RemoveAll clears the node and drops callbacks registered under it.
func (m *menu) RemoveAll() {
	_ = m.c.call("menu.remove_all", nil, m.path)
	prefix := m.path
	if prefix != "" {
		prefix += ">"
	}
	m.c.mu.Lock()
	for p := range m.c.menuFns {
		if strings.HasPrefix(p, prefix) {
			delete(m.c.menuFns, p)
		}
	}
	m.c.mu.Unlock()
}
