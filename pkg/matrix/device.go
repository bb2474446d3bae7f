package matrix

// DeviceMatrix is what a reduction stamps its equations into.
type DeviceMatrix interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}
