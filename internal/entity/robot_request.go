package entity

import "time"

type RobotRequest struct {
	ID          string    `db:"id"`
	RobotID     string    `db:"robot_id"`
	Status      string    `db:"status"`
	TrashTypes  []string  `db:"trash_types"`
	Priority    string    `db:"priority"`
	Location    string    `db:"location"`
	Notes       string    `db:"notes"`
	RequestTime time.Time `db:"request_time"`
	ETAMinutes  int       `db:"eta_minutes"`
}
