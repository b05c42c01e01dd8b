package service

import (
	"context"
	"testing"

	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/repository/mysql"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type PotluckServiceSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *PotluckService
}

func TestPotluckServiceSuite(t *testing.T) {
	suite.Run(t, new(PotluckServiceSuite))
}

func (s *PotluckServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.svc = NewPotluckService(s.db)
}

func (s *PotluckServiceSuite) createUser(username, name string) uint64 {
	u := &model.User{Username: username, Password: "x", Name: name}
	s.Require().NoError(s.db.Create(u).Error)
	return u.ID
}

func (s *PotluckServiceSuite) TestSaveOptionsUpsert() {
	ctx := context.Background()
	uid := s.createUser("pepe", "Pepe")

	s.Require().NoError(s.svc.SaveOptions(ctx, uid, "Tamales", "Pozole", ""))
	s.Require().NoError(s.svc.SaveOptions(ctx, uid, "Bacalao", "", ""))

	var n int64
	s.Require().NoError(s.db.Model(&model.Potluck{}).Count(&n).Error)
	s.Equal(int64(1), n)

	entry, err := s.svc.MyEntry(ctx, uid)
	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Equal("Bacalao", entry.Dish1)
	s.Equal("", entry.Dish2)
}

func (s *PotluckServiceSuite) TestSaveOptionsRequiresADish() {
	ctx := context.Background()
	uid := s.createUser("lalo", "Lalo")
	s.Error(s.svc.SaveOptions(ctx, uid, "", "", ""))
}

func (s *PotluckServiceSuite) TestMyEntryMissing() {
	uid := s.createUser("sinmenu", "")
	entry, err := s.svc.MyEntry(context.Background(), uid)
	s.Require().NoError(err)
	s.Nil(entry)
}

// 先到先得：P1 拿第一候选，P2 的 Cake 被占改拿 Salad，P3 的 Pie 被占…
func (s *PotluckServiceSuite) TestAutoAssignGreedyFirstFit() {
	ctx := context.Background()
	p1 := s.createUser("p1", "P1")
	p2 := s.createUser("p2", "P2")
	p3 := s.createUser("p3", "P3")

	s.Require().NoError(s.svc.SaveOptions(ctx, p1, "Cake", "Pie", "Soup"))
	s.Require().NoError(s.svc.SaveOptions(ctx, p2, "Cake", "Salad", ""))
	s.Require().NoError(s.svc.SaveOptions(ctx, p3, "Pie", "Soup", ""))

	entries, err := s.svc.AutoAssign(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("Cake", entries[0].Assigned)
	s.Equal("Salad", entries[1].Assigned)
	s.Equal("Pie", entries[2].Assigned)
}

func (s *PotluckServiceSuite) TestAutoAssignConflictSentinel() {
	ctx := context.Background()
	p1 := s.createUser("p1", "P1")
	p2 := s.createUser("p2", "P2")

	s.Require().NoError(s.svc.SaveOptions(ctx, p1, "Tamales", "", ""))
	s.Require().NoError(s.svc.SaveOptions(ctx, p2, "Tamales", "", ""))

	entries, err := s.svc.AutoAssign(ctx)
	s.Require().NoError(err)
	s.Equal("Tamales", entries[0].Assigned)
	s.Equal(mysql.ConflictDish, entries[1].Assigned)
}

// 重跑覆盖所有历史分配
func (s *PotluckServiceSuite) TestAutoAssignRerunOverwrites() {
	ctx := context.Background()
	p1 := s.createUser("p1", "P1")
	p2 := s.createUser("p2", "P2")

	s.Require().NoError(s.svc.SaveOptions(ctx, p1, "Cake", "", ""))
	s.Require().NoError(s.svc.SaveOptions(ctx, p2, "Cake", "", ""))

	entries, err := s.svc.AutoAssign(ctx)
	s.Require().NoError(err)
	s.Equal(mysql.ConflictDish, entries[1].Assigned)

	// P2 改报别的菜，冲突消失
	s.Require().NoError(s.svc.SaveOptions(ctx, p2, "Pozole", "", ""))
	entries, err = s.svc.AutoAssign(ctx)
	s.Require().NoError(err)
	s.Equal("Cake", entries[0].Assigned)
	s.Equal("Pozole", entries[1].Assigned)

	// 输入不变时重跑结果不变
	again, err := s.svc.AutoAssign(ctx)
	s.Require().NoError(err)
	s.Equal(entries, again)
}

func (s *PotluckServiceSuite) TestListAllShowsFriendNames() {
	ctx := context.Background()
	p1 := s.createUser("chucho", "Jesús")
	s.Require().NoError(s.svc.SaveOptions(ctx, p1, "Romeritos", "", ""))

	entries, err := s.svc.ListAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("Jesús", entries[0].Friend)
}
