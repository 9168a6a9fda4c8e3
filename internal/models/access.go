package models

// ModuleAccess is a module as one user sees it. Lock state is computed on
// read and never stored.
type ModuleAccess struct {
	Module
	ImageURL string `json:"image_url,omitempty"`
	Locked   bool   `json:"locked"`
}

type LessonAccess struct {
	Lesson
	ImageURL  string `json:"image_url,omitempty"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
	Locked    bool   `json:"locked"`
}
