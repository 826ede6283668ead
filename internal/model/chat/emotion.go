package chat

// Emotion maps an emotion label to a weight in [0,1]. A nil map means the
// backend sent no signal.
type Emotion map[string]float64
