// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"sitterbid-backend/models"
	"sitterbid-backend/utils"
)

// ReminderService texts parents of next-day confirmed bookings.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders(time.Now())
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendDailyReminders texts every confirmed booking starting tomorrow.
func (s *ReminderService) SendDailyReminders(now time.Time) {
	log.Println("Starting daily reminder processing...")

	tomorrow := utils.DateKey(now.AddDate(0, 0, 1))

	var bookings []models.Booking
	if err := s.db.
		Where("date = ? AND status = ?", tomorrow, models.StatusConfirmed).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch bookings for %s: %v", tomorrow, err)
		return
	}

	for i := range bookings {
		s.sendReminder(&bookings[i])
	}

	log.Println("Daily reminder processing completed")
}

func (s *ReminderService) sendReminder(booking *models.Booking) {
	if booking.CustomerPhone == nil || *booking.CustomerPhone == "" {
		return
	}

	// Skip bookings already reminded, the job may be re-run manually
	var count int64
	s.db.Model(&models.ReminderLog{}).
		Where("booking_id = ? AND status = ?", booking.ID, "sent").
		Count(&count)
	if count > 0 {
		return
	}

	message := fmt.Sprintf(
		"Hi %s! A reminder of your babysitting booking tomorrow, %s from %s to %s. See you then!",
		booking.CustomerName, booking.Date,
		booking.StartTime[:5], booking.EndTime[:5])

	to := strings.TrimSpace(*booking.CustomerPhone)
	channel := "sms"

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	params.SetFrom(os.Getenv("TWILIO_FROM_NUMBER"))

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", to, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", to)
	}

	reminderLog := models.ReminderLog{
		BookingID:    booking.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      channel,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for booking %s: %v", booking.ID, err)
	}
}
