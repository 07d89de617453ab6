package tui

import (
	"github.com/btcalls/newsdesk/internal/headlines"
	"github.com/btcalls/newsdesk/internal/imgcache"
	"github.com/btcalls/newsdesk/internal/store"
)

type snapshotMsg struct {
	snap headlines.Snapshot
}

type thumbMsg struct {
	update imgcache.Update
}

type saveDoneMsg struct {
	err error
}

type savedDeletedMsg struct {
	remaining []store.Article
	err       error
}

type openErrMsg struct {
	err error
}
