package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Task{},
		&TestCase{},
		&Hackathon{},
		&HackathonTask{},
		&HackathonParticipant{},
		&ParticipationRequest{},
		&TaskSubmission{},
		&SystemSettings{},
		&AdminAction{},
	}
}
