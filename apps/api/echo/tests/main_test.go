package tests

import (
	"io"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/osisproject0-hub/osis-sub000/apps/api/echo"
	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/content"
	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	"github.com/osisproject0-hub/osis-sub000/core/org"
	"github.com/osisproject0-hub/osis-sub000/core/task"
	docgensvc "github.com/osisproject0-hub/osis-sub000/services/docgen"
	emailsvc "github.com/osisproject0-hub/osis-sub000/services/email"
	logsvc "github.com/osisproject0-hub/osis-sub000/services/logger"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

var (
	conf *core.Config

	mbrRepo      member.Repository
	electionRepo election.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	conf = testutil.NewConfig()
	conf.Debug = false // keep API error responses in their production shape

	m.Run()
}

// setup builds an app on a fresh in-memory database.
func setup(t *testing.T) Server {
	emailsvc.ClearSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	mbrRepo = dummydb.NewMemberRepository(db)
	electionRepo = dummydb.NewElectionRepository(db)

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	mbrSvc := member.NewService(mbrRepo, mailSvc, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	member.InitValidators(validate, translator)

	return NewServer(
		ServerDeps{
			Conf:        conf,
			Logger:      logger,
			MemberSvc:   mbrSvc,
			OrgSvc:      org.NewService(dummydb.NewOrgRepository(db)),
			TaskSvc:     task.NewService(dummydb.NewTaskRepository(db)),
			FinanceSvc:  finance.NewService(dummydb.NewFinanceRepository(db), mbrSvc, mailSvc),
			ContentSvc:  content.NewService(dummydb.NewContentRepository(db)),
			ElectionSvc: election.NewService(electionRepo),
			DocGen:      docgensvc.NewStubService(),
			Validate:    validate,
			Translator:  translator,

			DisableReqLogs: true,
		},
	)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
