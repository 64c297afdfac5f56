package lighting

// Manager owns every light in a scene. Lights live in one arena and are
// referenced by index from two views: committed lights are composed into
// the lighting area each frame, glowing lights are also drawn straight
// into the scene. An optional cursor light follows the pointer and is
// composed while enabled, without being committed.
type Manager struct {
	lights    []Light
	committed []int
	glowing   []int

	cursor   Light
	cursorOn bool
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		lights:    make([]Light, 0),
		committed: make([]int, 0),
		glowing:   make([]int, 0),
	}
}

// Add stores l, commits it and, when glow is set, adds it to the glowing
// view. It returns the arena index of the light.
func (m *Manager) Add(l Light, glow bool) int {
	idx := len(m.lights)
	m.lights = append(m.lights, l)
	m.committed = append(m.committed, idx)
	if glow {
		m.glowing = append(m.glowing, idx)
	}
	return idx
}

// Light returns the light at idx, or nil when idx is out of range.
func (m *Manager) Light(idx int) Light {
	if idx < 0 || idx >= len(m.lights) {
		return nil
	}
	return m.lights[idx]
}

// Len returns the number of stored lights.
func (m *Manager) Len() int { return len(m.lights) }

// Committed returns the committed lights in insertion order.
func (m *Manager) Committed() []Light {
	return m.view(m.committed)
}

// Glowing returns the glowing lights in insertion order.
func (m *Manager) Glowing() []Light {
	return m.view(m.glowing)
}

func (m *Manager) view(indices []int) []Light {
	out := make([]Light, 0, len(indices))
	for _, idx := range indices {
		out = append(out, m.lights[idx])
	}
	return out
}

// IsGlowing reports whether the light at idx is in the glowing view.
func (m *Manager) IsGlowing(idx int) bool {
	for _, g := range m.glowing {
		if g == idx {
			return true
		}
	}
	return false
}

// SetGlow adds or removes the light at idx from the glowing view.
func (m *Manager) SetGlow(idx int, glow bool) {
	if idx < 0 || idx >= len(m.lights) || m.IsGlowing(idx) == glow {
		return
	}
	if glow {
		m.glowing = append(m.glowing, idx)
		return
	}
	for i, g := range m.glowing {
		if g == idx {
			m.glowing = append(m.glowing[:i], m.glowing[i+1:]...)
			return
		}
	}
}

// SetCursorLight installs the light that follows the pointer.
func (m *Manager) SetCursorLight(l Light) {
	m.cursor = l
}

// CursorLight returns the cursor light, or nil.
func (m *Manager) CursorLight() Light {
	return m.cursor
}

// EnableCursorLight turns the cursor light on or off.
func (m *Manager) EnableCursorLight(enabled bool) {
	m.cursorOn = enabled
}

// IsCursorLightOn reports whether the cursor light is composed.
func (m *Manager) IsCursorLightOn() bool {
	return m.cursorOn && m.cursor != nil
}

// All returns the lights to compose this frame: the committed lights
// followed by the cursor light when it is on.
func (m *Manager) All() []Light {
	lights := m.Committed()
	if m.IsCursorLightOn() {
		lights = append(lights, m.cursor)
	}
	return lights
}

// Clear removes every stored light. The cursor light is kept.
func (m *Manager) Clear() {
	m.lights = m.lights[:0]
	m.committed = m.committed[:0]
	m.glowing = m.glowing[:0]
}
