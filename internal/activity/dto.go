package activity

// CreateActivityDTO represents the request payload for a manual activity entry
type CreateActivityDTO struct {
	Action string `json:"action"`
	Detail string `json:"detail"`
}
