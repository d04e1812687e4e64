package domain

import "time"

type Patient struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
}

type Appointment struct {
	ID        int64     `json:"id"`
	DateTime  time.Time `json:"date_time"`
	PatientID int64     `json:"patient_id"`
}
