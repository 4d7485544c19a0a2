// Package ban tracks abusive clients on the OTP endpoints. Strikes accrue in
// redis; enough strikes inside the window bans the client for an hour and
// alerts the operators by mail.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/smtp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/coffee-storefront/internal/redissvc"
)

var (
	alertFrom        string
	alertTo          string
	smtpServer       string
	smtpPort         string
	smtpUser         string
	smtpPassword     string
	smtpAuthDisabled bool

	rdb *redis.Client
	ctx context.Context
)

const (
	strikeLimit  = 10
	strikeWindow = 10 * time.Minute
	banDuration  = time.Hour
)

func SetRedisService(rs *redissvc.RedisService) {
	rdb = rs.Rdb()
	ctx = rs.Ctx()
}

// SetAlertMail configures the operator alert channel.
func SetAlertMail(from, to, server, port, user, pass string) {
	alertFrom, alertTo = from, to
	smtpServer, smtpPort = server, port
	smtpUser, smtpPassword = user, pass
	smtpAuthDisabled = user == ""
}

// RecordStrike counts one rate-limit rejection against the client and bans it
// when the window limit is crossed. Returns whether the client is now banned.
func RecordStrike(clientID, route string, r *http.Request) bool {
	if rdb == nil {
		return false
	}
	key := "ratelimit:strikes:" + clientID
	strikes, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("recording strike for %s: %v", clientID, err)
		return false
	}
	if strikes == 1 {
		rdb.Expire(ctx, key, strikeWindow)
	}
	if strikes < strikeLimit {
		return false
	}

	if err := rdb.Set(ctx, "ratelimit:banned:"+clientID, time.Now().Format(time.RFC3339), banDuration).Err(); err != nil {
		log.Printf("banning %s: %v", clientID, err)
		return false
	}
	if err := SendBanAlertEmail(clientID, route, int(strikes), r); err != nil {
		log.Printf("alerting on ban of %s: %v", clientID, err)
	}
	return true
}

// IsBanned reports whether the client is currently banned.
func IsBanned(clientID string) bool {
	if rdb == nil {
		return false
	}
	exists, err := rdb.Exists(ctx, "ratelimit:banned:"+clientID).Result()
	if err != nil {
		log.Printf("checking ban for %s: %v", clientID, err)
		return false
	}
	return exists > 0
}

func SendBanAlertEmail(bannedID string, route string, strikes int, r *http.Request) error {
	subject := fmt.Sprintf("BAN ALERT: %s blocked", bannedID)
	body := fmt.Sprintf("Target: %s\nRoute: %s\nStrikes: %d\nTime: %s", bannedID, route, strikes, time.Now().Format(time.RFC3339))

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", alertFrom, alertTo, subject, body)

	addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
	auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)
	if smtpAuthDisabled {
		auth = nil
	}

	go func() {
		err := smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg))
		if err != nil {
			log.Printf("Failed to send alert email: %v\n", err)
		}
	}()

	logBanEvent(bannedID, route, strikes)

	return nil
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

const DailyBanLogKey = "ratelimit:banlog:daily"

func logBanEvent(target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

// StartDailyBanSummary periodically mails a digest of ban events and clears
// the log.
func StartDailyBanSummary(interval time.Duration) {
	for {
		time.Sleep(interval)
		entries, err := rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
		if err != nil || len(entries) == 0 {
			continue
		}

		body := "Ban summary (" + strconv.Itoa(len(entries)) + " events):\n\n"
		for _, e := range entries {
			body += e + "\n"
		}

		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Daily ban summary\r\n\r\n%s", alertFrom, alertTo, body)
		addr := fmt.Sprintf("%s:%s", smtpServer, smtpPort)
		auth := smtp.PlainAuth("", smtpUser, smtpPassword, smtpServer)
		if smtpAuthDisabled {
			auth = nil
		}
		if err := smtp.SendMail(addr, auth, alertFrom, []string{alertTo}, []byte(msg)); err != nil {
			log.Printf("Failed to send ban summary: %v", err)
			continue
		}
		rdb.Del(ctx, DailyBanLogKey)
	}
}
