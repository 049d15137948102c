package booking

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
)

// maxSlotsSpoken bounds how many slots are read out loud. The engine keeps
// the full ordered list in the session so a booking can target any of them.
const maxSlotsSpoken = 3

// formatSlotsMessage lists up to three offered slots with their clock times
// and the unix instants the assistant must echo back in bookAppointment.
func formatSlotsMessage(dateText, serviceType string, slots []schedule.Slot, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Voici les créneaux disponibles pour le %s (%s) :\n", dateText, serviceType)
	for i, slot := range slots {
		if i >= maxSlotsSpoken {
			break
		}
		fmt.Fprintf(&sb, "- De %s à %s (start: %d, end: %d)\n",
			slot.Start.In(loc).Format("15:04"),
			slot.End.In(loc).Format("15:04"),
			slot.Start.Unix(),
			slot.End.Unix(),
		)
	}
	sb.WriteString("Lequel souhaitez-vous ?")
	return sb.String()
}

func noAvailabilityMessage(dateText string) string {
	return fmt.Sprintf("Je suis désolée, aucun créneau n'est disponible le %s. Voulez-vous essayer une autre date ?", dateText)
}

func badDateMessage() string {
	return "Je n'ai pas compris la date demandée. Pouvez-vous me donner une autre date, par exemple 15/07/2024 ?"
}

func incompleteSessionMessage() string {
	return "Je n'ai pas encore de créneaux à vous proposer. Souhaitez-vous que je vérifie d'abord les disponibilités ?"
}

func slotNotFoundMessage() string {
	return "Je suis désolée, ce créneau ne correspond à aucune des propositions. Souhaitez-vous en choisir un autre ?"
}

func gatewayFailureMessage() string {
	return "Je suis désolée, je n'ai pas pu réserver ce créneau. Souhaitez-vous réessayer ?"
}

func confirmationMessage(serviceType, patientName string, slot schedule.Slot, loc *time.Location) string {
	start := slot.Start.In(loc)
	if serviceType == "" {
		return fmt.Sprintf(
			"Parfait ! Rendez-vous confirmé le %s à %s au nom de %s. Vous recevrez une confirmation.",
			start.Format("02/01/2006"),
			start.Format("15:04"),
			patientName,
		)
	}
	return fmt.Sprintf(
		"Parfait ! Rendez-vous confirmé pour %s le %s à %s au nom de %s. Vous recevrez une confirmation.",
		serviceType,
		start.Format("02/01/2006"),
		start.Format("15:04"),
		patientName,
	)
}

// eventSummary builds the calendar event title, e.g. "Contrôle - Dupont".
func eventSummary(serviceType, patientName string) string {
	if serviceType == "" {
		serviceType = "rendez-vous"
	}
	return capitalize(serviceType) + " - " + patientName
}

// eventDescription lists the patient details on the calendar event.
func eventDescription(serviceType string, patient PatientInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Patient: %s\n", patient.Name)
	if serviceType != "" {
		fmt.Fprintf(&sb, "Service: %s\n", serviceType)
	}
	if patient.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", patient.Email)
	}
	if patient.Phone != "" {
		fmt.Fprintf(&sb, "Téléphone: %s", patient.Phone)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
