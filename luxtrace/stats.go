package luxtrace

// Stats counts tracing events. Each worker owns its Stats and merges them when done.
type Stats struct {
	// Samples counts irradiance estimates, usually one per pixel.
	Samples     uint64
	Rays        uint64
	Hits        uint64
	Escapes     uint64
	MarchSteps  uint64
	Reflections uint64
	Refractions uint64
	// TotalInternalReflections counts refraction attempts with no real solution.
	TotalInternalReflections uint64
	// MaxDepth is the deepest recursion level reached.
	MaxDepth int
}

// Merge accumulates other into s.
func (s *Stats) Merge(other Stats) {
	s.Samples += other.Samples
	s.Rays += other.Rays
	s.Hits += other.Hits
	s.Escapes += other.Escapes
	s.MarchSteps += other.MarchSteps
	s.Reflections += other.Reflections
	s.Refractions += other.Refractions
	s.TotalInternalReflections += other.TotalInternalReflections
	s.MaxDepth = max(s.MaxDepth, other.MaxDepth)
}

// StepsPerRay returns the mean amount of marching steps per ray.
func (s *Stats) StepsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.MarchSteps) / float64(s.Rays)
}
