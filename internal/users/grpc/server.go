package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/gate"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/service"
	pb "github.com/Codelsoft-Microservices/codelsoft-users/rpc"
)

type Server struct {
	pb.UnimplementedUsersServer
	userService service.UserService
}

func NewServer(userService service.UserService) *Server {
	return &Server{userService: userService}
}

func (s *Server) GetAllUsers(ctx context.Context, req *pb.GetAllUsersRequest) (*pb.GetAllUsersResponse, error) {
	users, err := s.userService.List(ctx, gate.TokenFromContext(ctx))
	if err != nil {
		return nil, err
	}

	resp := &pb.GetAllUsersResponse{Users: make([]*pb.User, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toProto(u))
	}
	return resp, nil
}

func (s *Server) GetUserByUUID(ctx context.Context, req *pb.GetUserByUUIDRequest) (*pb.GetUserByUUIDResponse, error) {
	user, err := s.userService.GetByUUID(ctx, gate.TokenFromContext(ctx), req.Uuid)
	if err != nil {
		return nil, err
	}
	return &pb.GetUserByUUIDResponse{
		User: toProto(*user),
	}, nil
}

func (s *Server) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.CreateUserResponse, error) {
	result, err := s.userService.Create(ctx, gate.TokenFromContext(ctx), service.CreateUserInput{
		Name:            req.Name,
		Lastname:        req.Lastname,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            models.Role(req.Role),
	})
	if err != nil {
		return nil, err
	}
	return &pb.CreateUserResponse{
		User:  toProto(result.User),
		Token: result.Token,
	}, nil
}

func (s *Server) UpdateUser(ctx context.Context, req *pb.UpdateUserRequest) (*pb.UpdateUserResponse, error) {
	result, err := s.userService.Update(ctx, gate.TokenFromContext(ctx), service.UpdateUserInput{
		UUID:            req.Uuid,
		Name:            req.Name,
		Lastname:        req.Lastname,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return nil, err
	}
	return &pb.UpdateUserResponse{
		User:  toProto(result.User),
		Token: result.Token,
	}, nil
}

func (s *Server) DeleteUser(ctx context.Context, req *pb.DeleteUserRequest) (*emptypb.Empty, error) {
	if err := s.userService.Delete(ctx, gate.TokenFromContext(ctx), req.Uuid); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func toProto(u models.UserPublic) *pb.User {
	return &pb.User{
		Uuid:      u.UUID,
		Name:      u.Name,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
