package develop

// AdaptCrop 校验几何关系并把 crop（传感器坐标）换算为相对 active 原点的坐标
func AdaptCrop(sensor Dim2, active, crop Rect) (Rect, error) {
	if active.IsEmpty() || !FullRect(sensor).Contains(active) {
		return Rect{}, configErrorf("active_area", "%s is not inside sensor %s", active, sensor)
	}
	if crop.IsEmpty() || !active.Contains(crop) {
		return Rect{}, configErrorf("crop_area", "%s is not inside active area %s", crop, active)
	}
	return Rect{
		P: Point{X: crop.P.X - active.P.X, Y: crop.P.Y - active.P.Y},
		D: crop.D,
	}, nil
}

// Crop 从 dim 大小、每像素 channels 个值的缓冲区中取出 area。
// area 覆盖整个缓冲区时原样返回。
func Crop(buf []float32, dim Dim2, channels int, area Rect) ([]float32, Dim2, error) {
	if len(buf) != dim.Pixels()*channels {
		return nil, Dim2{}, configErrorf("buffer", "has %d values, want %s x %d", len(buf), dim, channels)
	}
	if area.P == (Point{}) && area.D == dim {
		return buf, dim, nil
	}
	if area.IsEmpty() || !FullRect(dim).Contains(area) {
		return nil, Dim2{}, configErrorf("crop_area", "%s is out of bounds for %s", area, dim)
	}

	rowLen := area.D.W * channels
	out := make([]float32, area.D.H*rowLen)
	for y := 0; y < area.D.H; y++ {
		src := ((area.P.Y+y)*dim.W + area.P.X) * channels
		copy(out[y*rowLen:(y+1)*rowLen], buf[src:src+rowLen])
	}
	return out, area.D, nil
}
