package services

import (
	"context"
	"errors"

	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/realtime"
	"moaqeb-backend/internal/repositories"
)

// PartyService manages the clients and agents of an office. The two
// sides share validation and the tier gate but keep separate tables.
type PartyService struct {
	Clients    *repositories.ClientRepository
	Agents     *repositories.AgentRepository
	Membership *MembershipService
	Hub        *realtime.Hub
}

func NewPartyService(clients *repositories.ClientRepository, agents *repositories.AgentRepository, membership *MembershipService, hub *realtime.Hub) *PartyService {
	return &PartyService{Clients: clients, Agents: agents, Membership: membership, Hub: hub}
}

func (s *PartyService) CreateClient(ctx context.Context, user *models.User, req *models.CreatePartyRequest) (*models.Client, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if err := s.Membership.CheckLimit(ctx, user, FeatureClients); err != nil {
		return nil, err
	}

	c := &models.Client{
		OfficeID: user.OfficeID(),
		Name:     req.Name, Phone: req.Phone, WhatsApp: req.WhatsApp,
		CreatedBy: user.ID,
	}
	if err := s.Clients.Create(ctx, c); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(c.OfficeID, "clients", "created")
	return c, nil
}

func (s *PartyService) CreateAgent(ctx context.Context, user *models.User, req *models.CreatePartyRequest) (*models.Agent, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.Name == models.SelfHandledAgent {
		return nil, errors.New("reserved agent name")
	}
	if err := s.Membership.CheckLimit(ctx, user, FeatureAgents); err != nil {
		return nil, err
	}

	a := &models.Agent{
		OfficeID: user.OfficeID(),
		Name:     req.Name, Phone: req.Phone, WhatsApp: req.WhatsApp,
		CreatedBy: user.ID,
	}
	if err := s.Agents.Create(ctx, a); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(a.OfficeID, "agents", "created")
	return a, nil
}

func (s *PartyService) ListClients(ctx context.Context, officeID int) ([]models.Client, error) {
	return s.Clients.List(ctx, officeID)
}

func (s *PartyService) ListAgents(ctx context.Context, officeID int) ([]models.Agent, error) {
	return s.Agents.List(ctx, officeID)
}

func (s *PartyService) UpdateClient(ctx context.Context, officeID, id int, req *models.CreatePartyRequest) (*models.Client, error) {
	c, err := s.Clients.Get(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Phone, c.WhatsApp = req.Name, req.Phone, req.WhatsApp
	if err := s.Clients.Update(ctx, c); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "clients", "updated")
	return c, nil
}

func (s *PartyService) UpdateAgent(ctx context.Context, officeID, id int, req *models.CreatePartyRequest) (*models.Agent, error) {
	a, err := s.Agents.Get(ctx, officeID, id)
	if err != nil {
		return nil, err
	}
	a.Name, a.Phone, a.WhatsApp = req.Name, req.Phone, req.WhatsApp
	if err := s.Agents.Update(ctx, a); err != nil {
		return nil, err
	}
	s.Hub.Broadcast(officeID, "agents", "updated")
	return a, nil
}

func (s *PartyService) DeleteClient(ctx context.Context, officeID, id int) error {
	if err := s.Clients.Delete(ctx, officeID, id); err != nil {
		return errors.New("client has transactions and cannot be deleted")
	}
	s.Hub.Broadcast(officeID, "clients", "deleted")
	return nil
}

func (s *PartyService) DeleteAgent(ctx context.Context, officeID, id int) error {
	if err := s.Agents.Delete(ctx, officeID, id); err != nil {
		return errors.New("agent has transactions and cannot be deleted")
	}
	s.Hub.Broadcast(officeID, "agents", "deleted")
	return nil
}
