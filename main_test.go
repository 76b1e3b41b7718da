package main

import (
	"testing"

	"github.com/DedS3t/richman/app/models"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestLogIdentityHidesTokenAtInfo(t *testing.T) {
	hook := test.NewGlobal()
	defer logrus.SetLevel(logrus.InfoLevel)
	user := models.User{Id: "user_1", Token: "header.payload.signature"}

	logrus.SetLevel(logrus.InfoLevel)
	logIdentity(user)
	for _, entry := range hook.AllEntries() {
		if _, ok := entry.Data["token"]; ok {
			t.Fatalf("token logged at %s", entry.Level)
		}
	}
	if len(hook.AllEntries()) != 1 || hook.LastEntry().Data["peer"] != "user_1" {
		t.Fatalf("expected only the peer id, got %d entries", len(hook.AllEntries()))
	}

	hook.Reset()
	logrus.SetLevel(logrus.DebugLevel)
	logIdentity(user)
	if hook.LastEntry() == nil || hook.LastEntry().Data["token"] != user.Token {
		t.Fatal("token should be available at debug")
	}
}
