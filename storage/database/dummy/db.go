package dummydb

import (
	"sync"

	"github.com/osisproject0-hub/osis-sub000/core/content"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/core/org"
	"github.com/osisproject0-hub/osis-sub000/core/task"
)

type (
	DB struct {
		member   *memberTable
		division *divisionTable
		program  *programTable
		task     *taskTable
		fund     *fundTable
		ledger   *ledgerTable
		news     *newsTable
		gallery  *galleryTable
		election *electionTables
	}

	memberTable struct {
		sync.RWMutex
		table map[string]*member.Member
	}
	divisionTable struct {
		sync.RWMutex
		table map[string]*org.Division
	}
	programTable struct {
		sync.RWMutex
		table map[string]*org.WorkProgram
	}
	taskTable struct {
		sync.RWMutex
		table map[string]*task.Task
	}
	fundTable struct {
		sync.RWMutex
		table map[string]*finance.FundRequest
	}
	ledgerTable struct {
		sync.RWMutex
		table map[string]*finance.LedgerEntry
	}
	newsTable struct {
		sync.RWMutex
		table map[string]*content.News
	}
	galleryTable struct {
		sync.RWMutex
		table map[string]*content.GalleryItem
	}

	// electionTables holds version-stamped rows so ballot transactions can
	// validate their reads at commit time.
	electionTables struct {
		sync.Mutex
		candidates map[string]*versionedCandidate
		ballots    map[string]*election.Ballot
		control    *versionedControl
	}

	versionedCandidate struct {
		candidate election.Candidate
		version   uint64
	}
	versionedControl struct {
		control election.Control
		version uint64
	}
)

func Open() (*DB, error) {
	db := &DB{
		member:   &memberTable{table: make(map[string]*member.Member)},
		division: &divisionTable{table: make(map[string]*org.Division)},
		program:  &programTable{table: make(map[string]*org.WorkProgram)},
		task:     &taskTable{table: make(map[string]*task.Task)},
		fund:     &fundTable{table: make(map[string]*finance.FundRequest)},
		ledger:   &ledgerTable{table: make(map[string]*finance.LedgerEntry)},
		news:     &newsTable{table: make(map[string]*content.News)},
		gallery:  &galleryTable{table: make(map[string]*content.GalleryItem)},
		election: &electionTables{
			candidates: make(map[string]*versionedCandidate),
			ballots:    make(map[string]*election.Ballot),
		},
	}
	return db, nil
}
