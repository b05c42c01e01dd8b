package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/pkg"
	"github.com/Tengorio/12pavos/internal/repository/mysql"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB 测试用 SQLite（无外部依赖）。
// 限制单连接，保证 :memory: 始终是同一个库；并发调用在池上排队，
// 条件 UPDATE 的判定逻辑不受影响。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.User{},
		&model.Wish{},
		&model.Potluck{},
		&model.Availability{},
		&model.ExchangeOutbox{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type WishServiceSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *WishService

	userA, userB, userC uint64
}

func TestWishServiceSuite(t *testing.T) {
	suite.Run(t, new(WishServiceSuite))
}

func (s *WishServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	// SMTP 不配置，通知路径整个跳过
	s.svc = NewWishService(s.db, pkg.SMTPConfig{})

	s.userA = s.createUser("ana")
	s.userB = s.createUser("beto")
	s.userC = s.createUser("carla")
}

func (s *WishServiceSuite) createUser(username string) uint64 {
	u := &model.User{Username: username, Password: "x", Name: username}
	s.Require().NoError(s.db.Create(u).Error)
	return u.ID
}

func (s *WishServiceSuite) TestAddWishValidation() {
	_, err := s.svc.AddWish(context.Background(), s.userA, "")
	s.Error(err)

	long := make([]rune, 256)
	for i := range long {
		long[i] = '冰'
	}
	_, err = s.svc.AddWish(context.Background(), s.userA, string(long))
	s.Error(err)
}

func (s *WishServiceSuite) TestAddWishCap() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.svc.AddWish(ctx, s.userA, "deseo")
		s.Require().NoError(err)
	}
	_, err := s.svc.AddWish(ctx, s.userA, "el sexto")
	s.ErrorIs(err, mysql.ErrWishCapExceeded)
}

func (s *WishServiceSuite) TestBrowseExcludesOwnWishes() {
	ctx := context.Background()
	_, err := s.svc.AddWish(ctx, s.userA, "X")
	s.Require().NoError(err)
	_, err = s.svc.AddWish(ctx, s.userB, "Y")
	s.Require().NoError(err)
	_, err = s.svc.AddWish(ctx, s.userC, "Z")
	s.Require().NoError(err)

	market, err := s.svc.Browse(ctx, s.userA)
	s.Require().NoError(err)

	var descs []string
	for _, w := range market {
		descs = append(descs, w.Description)
	}
	s.ElementsMatch([]string{"Y", "Z"}, descs)
}

func (s *WishServiceSuite) TestConcurrentClaimSingleWinner() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "lego")
	s.Require().NoError(err)

	const n = 20
	claimants := make([]uint64, n)
	for i := range claimants {
		claimants[i] = s.createUser(string(rune('a'+i)) + "-racer")
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.svc.Claim(ctx, wishID, claimants[i])
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			s.ErrorIs(err, mysql.ErrAlreadyClaimed)
			losses++
		}
	}
	s.Equal(1, wins)
	s.Equal(n-1, losses)

	var wish model.Wish
	s.Require().NoError(s.db.First(&wish, wishID).Error)
	s.Require().NotNil(wish.ClaimedByID)
}

func (s *WishServiceSuite) TestClaimReleaseRoundTrip() {
	ctx := context.Background()
	_, err := s.svc.AddWish(ctx, s.userA, "X")
	s.Require().NoError(err)
	yID, err := s.svc.AddWish(ctx, s.userB, "Y")
	s.Require().NoError(err)
	_, err = s.svc.AddWish(ctx, s.userC, "Z")
	s.Require().NoError(err)

	// A 在市场里看不到自己的 X
	market, err := s.svc.Browse(ctx, s.userA)
	s.Require().NoError(err)
	s.Len(market, 2)

	// A 抢到 Y
	s.Require().NoError(s.svc.Claim(ctx, yID, s.userA))

	var y model.Wish
	s.Require().NoError(s.db.First(&y, yID).Error)
	s.Require().NotNil(y.ClaimedByID)
	s.Equal(s.userA, *y.ClaimedByID)

	// C 慢一步
	s.ErrorIs(s.svc.Claim(ctx, yID, s.userC), mysql.ErrAlreadyClaimed)

	// A 放回去，C 再抢成功
	s.Require().NoError(s.svc.Release(ctx, yID, s.userA))
	s.Require().NoError(s.db.First(&y, yID).Error)
	s.Nil(y.ClaimedByID)

	s.Require().NoError(s.svc.Claim(ctx, yID, s.userC))
	s.Require().NoError(s.db.First(&y, yID).Error)
	s.Equal(s.userC, *y.ClaimedByID)
}

func (s *WishServiceSuite) TestSelfClaimForbidden() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "mio")
	s.Require().NoError(err)
	s.ErrorIs(s.svc.Claim(ctx, wishID, s.userA), mysql.ErrSelfClaim)
}

func (s *WishServiceSuite) TestReleaseGuards() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "algo")
	s.Require().NoError(err)

	// 未认领时释放
	s.ErrorIs(s.svc.Release(ctx, wishID, s.userB), mysql.ErrNotClaimant)

	// 非认领者释放
	s.Require().NoError(s.svc.Claim(ctx, wishID, s.userB))
	s.ErrorIs(s.svc.Release(ctx, wishID, s.userC), mysql.ErrNotClaimant)

	// 不存在的心愿
	s.ErrorIs(s.svc.Release(ctx, 9999, s.userB), mysql.ErrWishNotFound)
	s.ErrorIs(s.svc.Claim(ctx, 9999, s.userB), mysql.ErrWishNotFound)
}

func (s *WishServiceSuite) TestMyClaimsHideOwner() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "bufanda")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Claim(ctx, wishID, s.userB))

	claims, err := s.svc.MyClaims(ctx, s.userB)
	s.Require().NoError(err)
	s.Require().Len(claims, 1)
	// 票号就是心愿 id，DTO 上不存在主人字段
	s.Equal(wishID, claims[0].Ticket)
	s.Equal("bufanda", claims[0].Description)
}

func (s *WishServiceSuite) TestOwnerViewShowsClaimedFlagOnly() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "libro")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Claim(ctx, wishID, s.userB))

	own, err := s.svc.ListOwn(ctx, s.userA)
	s.Require().NoError(err)
	s.Require().Len(own, 1)
	s.True(own[0].Claimed)
}

func (s *WishServiceSuite) TestClaimAndReleaseWriteOutbox() {
	ctx := context.Background()
	wishID, err := s.svc.AddWish(ctx, s.userA, "juego")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Claim(ctx, wishID, s.userB))
	s.Require().NoError(s.svc.Release(ctx, wishID, s.userB))

	var events []model.ExchangeOutbox
	s.Require().NoError(s.db.Order("id ASC").Find(&events).Error)
	s.Require().Len(events, 2)
	s.Equal("claim", events[0].EventType)
	s.Equal("release", events[1].EventType)
	s.Equal(wishID, events[0].WishID)
	s.Equal(s.userB, events[0].ActorID)
}
