package tray

import (
	"context"

	"github.com/getlantern/systray"
)

// menuItem is the subset of *systray.MenuItem the binding drives.
type menuItem interface {
	SetTitle(title string)
	Check()
	Uncheck()
	Enable()
	Disable()
	Show()
	Hide()
}

// surface is the tray icon itself.
type surface interface {
	SetIcon(png []byte)
	SetTooltip(tooltip string)
}

type menuItems struct {
	surface     surface
	status      menuItem
	toggle      menuItem
	profiles    menuItem
	placeholder menuItem
	slots       [MaxProfileSlots]menuItem
}

// binding applies Menu values to pre-allocated items. Only differences from
// the last applied menu reach the toolkit, so repeated renders of the same
// state never flicker or duplicate entries.
type binding struct {
	items   *menuItems
	applied *Menu
}

func newBinding(items *menuItems) *binding {
	return &binding{items: items}
}

func (b *binding) apply(m Menu) {
	if b.items == nil {
		return
	}
	prev := b.applied
	it := b.items

	if prev == nil || prev.Icon != m.Icon {
		it.surface.SetIcon(IconPNG(m.Icon))
	}
	if prev == nil || prev.Tooltip != m.Tooltip {
		it.surface.SetTooltip(m.Tooltip)
	}

	applyItem(it.status, previous(prev, func(p *Menu) Item { return p.Status }), m.Status)
	applyItem(it.toggle, previous(prev, func(p *Menu) Item { return p.Toggle }), m.Toggle)
	applyItem(it.profiles, previous(prev, func(p *Menu) Item { return p.Profiles }), m.Profiles)
	applyItem(it.placeholder, previous(prev, func(p *Menu) Item { return p.Placeholder }), m.Placeholder)
	for i := range m.Slots {
		applyItem(it.slots[i], previous(prev, func(p *Menu) Item { return p.Slots[i].Item }), m.Slots[i].Item)
	}

	applied := m
	b.applied = &applied
}

// reassertSlot re-applies the last check state of a profile slot. Check
// items flip their own mark when clicked, which the diff cannot see.
func (b *binding) reassertSlot(slot int) {
	if b.items == nil || b.applied == nil || slot < 0 || slot >= MaxProfileSlots {
		return
	}
	item := b.items.slots[slot]
	if item == nil {
		return
	}
	if b.applied.Slots[slot].Checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func previous(prev *Menu, pick func(*Menu) Item) *Item {
	if prev == nil {
		return nil
	}
	item := pick(prev)
	return &item
}

func applyItem(item menuItem, prev *Item, next Item) {
	if item == nil {
		return
	}
	if prev == nil || prev.Title != next.Title {
		item.SetTitle(next.Title)
	}
	if prev == nil || prev.Checked != next.Checked {
		if next.Checked {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	if prev == nil || prev.Disabled != next.Disabled {
		if next.Disabled {
			item.Disable()
		} else {
			item.Enable()
		}
	}
	if prev == nil || prev.Hidden != next.Hidden {
		if next.Hidden {
			item.Hide()
		} else {
			item.Show()
		}
	}
}

type systraySurface struct{}

func (systraySurface) SetIcon(png []byte)        { systray.SetIcon(png) }
func (systraySurface) SetTooltip(tooltip string) { systray.SetTooltip(tooltip) }

// systrayMenu owns the real menu items, including the ones whose state never
// changes after creation.
type systrayMenu struct {
	menuItems

	toggleItem *systray.MenuItem
	refresh    *systray.MenuItem
	openUI     *systray.MenuItem
	settings   *systray.MenuItem
	about      *systray.MenuItem
	quit       *systray.MenuItem
	slotItems  [MaxProfileSlots]*systray.MenuItem
}

// buildSystrayMenu allocates every menu item up front. Profile slots start
// hidden and are filled in by later renders.
func buildSystrayMenu() *systrayMenu {
	m := &systrayMenu{}
	m.surface = systraySurface{}

	systray.SetIcon(IconPNG(IconIdle))
	systray.SetTooltip("KeyRx")

	status := systray.AddMenuItem("Status: Checking...", "")
	status.Disable()
	m.status = status
	systray.AddSeparator()

	m.toggleItem = systray.AddMenuItemCheckbox("Enable Remapping", "Turn key remapping on or off", false)
	m.toggle = m.toggleItem

	profiles := systray.AddMenuItem("Switch Profile", "Activate a remapping profile")
	m.profiles = profiles
	m.refresh = profiles.AddSubMenuItem("↻ Refresh Profiles", "Reload the profile list")
	divider := profiles.AddSubMenuItem("──────────", "")
	divider.Disable()
	placeholder := profiles.AddSubMenuItem("No profiles available", "")
	placeholder.Disable()
	m.placeholder = placeholder
	for i := range m.slotItems {
		m.slotItems[i] = profiles.AddSubMenuItemCheckbox("", "", false)
		m.slotItems[i].Hide()
		m.slots[i] = m.slotItems[i]
	}

	systray.AddSeparator()
	m.openUI = systray.AddMenuItem("Open Web UI", "Open the KeyRx web interface")
	m.settings = systray.AddMenuItem("Settings", "Open the settings page")
	m.about = systray.AddMenuItem("About", "About KeyRx")
	systray.AddSeparator()
	m.quit = systray.AddMenuItem("Quit Tray", "Close the tray; the daemon keeps running")
	return m
}

// watch forwards clicks to t until ctx is done.
func (m *systrayMenu) watch(ctx context.Context, t *Tray) {
	forward := func(ch <-chan struct{}, c click, slot int) {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					t.clicked(ctx, c, slot)
				}
			}
		}()
	}
	forward(m.toggleItem.ClickedCh, clickToggle, 0)
	forward(m.refresh.ClickedCh, clickRefresh, 0)
	forward(m.openUI.ClickedCh, clickOpenWebUI, 0)
	forward(m.settings.ClickedCh, clickSettings, 0)
	forward(m.about.ClickedCh, clickAbout, 0)
	forward(m.quit.ClickedCh, clickQuit, 0)
	for i, slot := range m.slotItems {
		forward(slot.ClickedCh, clickSlot, i)
	}
}
