package main

import (
	"github.com/nextlevel/reward-engine/internal/domain/eventhub"
	"github.com/nextlevel/reward-engine/pkg/kafka"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSubscriber(*cli.Context) error {
	defer s.stop()

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadPublisher()
	defer s.closePublisher()
	s.loadMissionEngine()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx).Kafka
	triggerSubscriber := eventhub.NewTriggerSubscriber(s.eventDomain)
	subscriber, err := kafka.NewSubscriber(
		cfg.GroupID,
		[]string{cfg.Addr},
		[]string{cfg.TriggerTopic},
		triggerSubscriber.Subscribe,
	)
	if err != nil {
		return err
	}

	go func() {
		<-s.ctx.Done()
		if err := subscriber.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Start subscriber of topic %s successfully", cfg.TriggerTopic)
	subscriber.Subscribe(s.ctx)
	return nil
}
